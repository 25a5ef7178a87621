package service

import "lost_and_found_tool/models"

// Principal is the authenticated actor attached to every operation. It is
// always passed explicitly; services never read ambient request state.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

type Action string

const (
	ActViewClaim     Action = "claim.view"
	ActWithdrawClaim Action = "claim.withdraw"
	ActUpdateClaim   Action = "claim.update"
	ActDeleteClaim   Action = "claim.delete"
	ActDecideClaim   Action = "claim.decide"
	ActAdminClaims   Action = "claim.admin"

	ActUpdateItem  Action = "item.update"
	ActDeleteItem  Action = "item.delete"
	ActUnclaimItem Action = "item.unclaim"
)

// rule says who may perform an action: the owning user, an admin, or both.
// For ActUnclaimItem the "owner" is the current claimant, not the reporter.
type rule struct {
	Owner bool
	Admin bool
}

// policy is the single authorization table. Every coordinator operation
// consults it instead of sprinkling role checks around.
var policy = map[Action]rule{
	ActViewClaim:     {Owner: true},
	ActWithdrawClaim: {Owner: true},
	ActUpdateClaim:   {Owner: true},
	ActDeleteClaim:   {Owner: true, Admin: true},
	ActDecideClaim:   {Admin: true},
	ActAdminClaims:   {Admin: true},

	ActUpdateItem:  {Owner: true}, // deliberately no admin override
	ActDeleteItem:  {Owner: true, Admin: true},
	ActUnclaimItem: {Owner: true, Admin: true},
}

// Allowed reports whether the actor may perform act on an entity owned by
// ownerID. Unknown actions are denied.
func Allowed(act Action, actor Principal, ownerID string) bool {
	r, ok := policy[act]
	if !ok {
		return false
	}
	if r.Admin && actor.IsAdmin() {
		return true
	}
	return r.Owner && actor.ID == ownerID
}
