package bot

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/bot/middleware"
	"p2e.club/discord-bot/internal/discord"
)

// HandlerFunc serves one command invocation.
type HandlerFunc func(ctx context.Context, inv *discord.Invocation)

// Category groups commands in !help.
type Category int

const (
	CategoryPoints Category = iota
	CategoryShop
	CategoryAdmin
	CategoryUtility
)

var categoryTitles = map[Category]string{
	CategoryPoints:  "💰 Points Commands",
	CategoryShop:    "🛍️ Shop Commands",
	CategoryAdmin:   "⚙️ Admin Commands",
	CategoryUtility: "🔧 Utility Commands",
}

// Command describes a registered command.
type Command struct {
	Name     string
	Usage    string // arguments shown in !help, e.g. "@user <amount>"
	Summary  string
	Category Category
	Admin    bool
	Handle   HandlerFunc
}

// AdminChecker reports whether a user holds the Administrator permission.
type AdminChecker interface {
	IsAdministrator(userID, channelID string) bool
}

// Router maps command names to handlers and applies the admin check and
// cooldowns before dispatching.
type Router struct {
	commands  map[string]*Command
	order     []string
	cooldown  *middleware.Cooldown
	messenger discord.Messenger
	admins    AdminChecker
	adminIDs  func(userID string) bool
}

func NewRouter(messenger discord.Messenger, admins AdminChecker, adminIDs func(string) bool, cooldown *middleware.Cooldown) *Router {
	return &Router{
		commands:  make(map[string]*Command),
		cooldown:  cooldown,
		messenger: messenger,
		admins:    admins,
		adminIDs:  adminIDs,
	}
}

// Register adds a command. Registering a name twice panics.
func (r *Router) Register(c Command) {
	if _, dup := r.commands[c.Name]; dup {
		panic(fmt.Sprintf("command %q registered twice", c.Name))
	}
	r.commands[c.Name] = &c
	r.order = append(r.order, c.Name)
}

func (r *Router) Lookup(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Commands returns the registered commands sorted by category, then in
// registration order.
func (r *Router) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func (r *Router) isAdmin(inv *discord.Invocation) bool {
	if r.adminIDs != nil && r.adminIDs(inv.AuthorID) {
		return true
	}
	return r.admins != nil && inv.GuildID != "" && r.admins.IsAdministrator(inv.AuthorID, inv.ChannelID)
}

// Dispatch runs the command named in inv. Unknown commands are ignored.
// It reports whether a handler ran.
func (r *Router) Dispatch(ctx context.Context, inv *discord.Invocation) bool {
	c, ok := r.commands[inv.Command]
	if !ok {
		return false
	}

	logger := log.WithFields(log.Fields{
		"cmd":     inv.Command,
		"user_id": inv.AuthorID,
	})

	if c.Admin {
		inv.IsAdmin = r.isAdmin(inv)
		if !inv.IsAdmin {
			logger.Warn("permission denied")
			r.reply(inv.ChannelID, "❌ You don't have permission to use this command.")
			return false
		}
	}

	if r.cooldown != nil {
		if allowed, wait := r.cooldown.Allow(inv.AuthorID, inv.Command); !allowed {
			logger.Info("cooldown triggered")
			r.reply(inv.ChannelID, fmt.Sprintf("⏰ Please wait %.1f seconds before using this command again.", wait.Seconds()))
			return false
		}
	}

	logger.Debug("routing command")
	c.Handle(ctx, inv)
	return true
}

func (r *Router) reply(channelID, text string) {
	if err := r.messenger.Send(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("send message failed")
	}
}
