package bot

// registerRoutes wires every command to its handler. The order here is the
// order !help lists them in.
func (b *Bot) registerRoutes(h Handlers) {
	r := b.router

	if h.Ledger != nil {
		r.Register(Command{Name: "points", Summary: "Check your points", Category: CategoryPoints, Handle: h.Ledger.HandlePoints})
		r.Register(Command{Name: "pointshistory", Summary: "View your point history", Category: CategoryPoints, Handle: h.Ledger.HandleHistory})
		r.Register(Command{Name: "pointvalues", Summary: "Show all ways to earn points", Category: CategoryPoints, Handle: h.Ledger.HandlePointValues})
		r.Register(Command{Name: "resume", Summary: "Claim points for resume upload", Category: CategoryPoints, Handle: h.Ledger.HandleResume})
		r.Register(Command{Name: "event", Summary: "Claim points for event attendance", Category: CategoryPoints, Handle: h.Ledger.HandleEvent})
		r.Register(Command{Name: "linkedin", Summary: "Claim points for LinkedIn updates", Category: CategoryPoints, Handle: h.Ledger.HandleLinkedIn})
		r.Register(Command{Name: "leaderboard", Usage: "[page]", Summary: "Show the leaderboard", Category: CategoryPoints, Handle: h.Ledger.HandleLeaderboard})
		r.Register(Command{Name: "rank", Usage: "[@user]", Summary: "Show a leaderboard position", Category: CategoryPoints, Handle: h.Ledger.HandleRank})
	}
	if h.Resources != nil {
		r.Register(Command{Name: "resource", Usage: "<description>", Summary: "Submit a resource for review", Category: CategoryPoints, Handle: h.Resources.HandleSubmit})
		r.Register(Command{Name: "approveresource", Usage: "<user_id> <points> [notes]", Summary: "Approve a resource", Category: CategoryAdmin, Admin: true, Handle: h.Resources.HandleApprove})
		r.Register(Command{Name: "rejectresource", Usage: "<user_id> [reason]", Summary: "Reject a resource", Category: CategoryAdmin, Admin: true, Handle: h.Resources.HandleReject})
		r.Register(Command{Name: "pendingresources", Summary: "List pending resources", Category: CategoryAdmin, Admin: true, Handle: h.Resources.HandlePending})
	}
	if h.Milestones != nil {
		r.Register(Command{Name: "milestones", Summary: "Show incentives and your progress", Category: CategoryPoints, Handle: h.Milestones.HandleMilestones})
		r.Register(Command{Name: "checkmilestones", Usage: "[@user]", Summary: "Re-run milestone detection", Category: CategoryAdmin, Admin: true, Handle: h.Milestones.HandleCheckMilestones})
	}
	if h.Shop != nil {
		r.Register(Command{Name: "shop", Summary: "View available rewards", Category: CategoryShop, Handle: h.Shop.HandleShop})
		r.Register(Command{Name: "redeem", Usage: "<id>", Summary: "Redeem a reward", Category: CategoryShop, Handle: h.Shop.HandleRedeem})
	}
	if h.Admin != nil {
		r.Register(Command{Name: "addpoints", Usage: "@user <amount>", Summary: "Add points", Category: CategoryAdmin, Admin: true, Handle: h.Admin.HandleAddPoints})
		r.Register(Command{Name: "removepoints", Usage: "@user <amount>", Summary: "Remove points", Category: CategoryAdmin, Admin: true, Handle: h.Admin.HandleRemovePoints})
		r.Register(Command{Name: "resetpoints", Usage: "@user", Summary: "Reset points to zero", Category: CategoryAdmin, Admin: true, Handle: h.Admin.HandleResetPoints})
		r.Register(Command{Name: "stats", Summary: "View bot statistics", Category: CategoryAdmin, Admin: true, Handle: h.Admin.HandleStats})
		r.Register(Command{Name: "topusers", Usage: "[limit]", Summary: "Show top users", Category: CategoryAdmin, Admin: true, Handle: h.Admin.HandleTopUsers})
		r.Register(Command{Name: "activitylog", Usage: "[hours]", Summary: "Show recent activity", Category: CategoryAdmin, Admin: true, Handle: h.Admin.HandleActivityLog})
	}
	if h.Moderation != nil {
		r.Register(Command{Name: "suspenduser", Usage: "@user <minutes>", Summary: "Suspend point earning", Category: CategoryAdmin, Admin: true, Handle: h.Moderation.HandleSuspend})
		r.Register(Command{Name: "unsuspenduser", Usage: "@user", Summary: "Lift a suspension", Category: CategoryAdmin, Admin: true, Handle: h.Moderation.HandleUnsuspend})
		r.Register(Command{Name: "clearwarnings", Usage: "@user", Summary: "Clear warnings", Category: CategoryAdmin, Admin: true, Handle: h.Moderation.HandleClearWarnings})
	}
	if h.Members != nil {
		r.Register(Command{Name: "welcome", Summary: "Show the welcome message", Category: CategoryUtility, Handle: h.Members.HandleWelcome})
		r.Register(Command{Name: "sendwelcome", Usage: "@user", Summary: "DM the welcome message", Category: CategoryAdmin, Admin: true, Handle: h.Members.HandleSendWelcome})
		r.Register(Command{Name: "registeruser", Usage: "@user", Summary: "Register a user with the backend", Category: CategoryAdmin, Admin: true, Handle: h.Members.HandleRegisterUser})
	}

	r.Register(Command{Name: "ping", Summary: "Test bot response", Category: CategoryUtility, Handle: b.handlePing})
	r.Register(Command{Name: "status", Summary: "Show bot status", Category: CategoryUtility, Handle: b.handleStatus})
	r.Register(Command{Name: "help", Summary: "Show this help message", Category: CategoryUtility, Handle: b.handleHelp})
}
