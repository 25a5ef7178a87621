package service

import (
	"testing"

	"lost_and_found_tool/models"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	owner := Principal{ID: "u1", Role: models.RoleUser}
	stranger := Principal{ID: "u2", Role: models.RoleUser}
	admin := Principal{ID: "a1", Role: models.RoleAdmin}

	cases := []struct {
		name  string
		act   Action
		actor Principal
		owner string
		want  bool
	}{
		{"owner views own claim", ActViewClaim, owner, "u1", true},
		{"stranger cannot view claim", ActViewClaim, stranger, "u1", false},
		{"admin has no view override", ActViewClaim, admin, "u1", false},

		{"owner withdraws", ActWithdrawClaim, owner, "u1", true},
		{"admin cannot withdraw for others", ActWithdrawClaim, admin, "u1", false},

		{"owner deletes claim", ActDeleteClaim, owner, "u1", true},
		{"admin deletes claim", ActDeleteClaim, admin, "u1", true},
		{"stranger cannot delete claim", ActDeleteClaim, stranger, "u1", false},

		{"only admin decides", ActDecideClaim, admin, "", true},
		{"claimant cannot decide own claim", ActDecideClaim, owner, "u1", false},

		{"reporter edits item", ActUpdateItem, owner, "u1", true},
		{"no admin override on item edits", ActUpdateItem, admin, "u1", false},

		{"reporter deletes item", ActDeleteItem, owner, "u1", true},
		{"admin deletes item", ActDeleteItem, admin, "u1", true},

		{"claimant unclaims", ActUnclaimItem, owner, "u1", true},
		{"admin unclaims for claimant", ActUnclaimItem, admin, "u1", true},
		{"stranger cannot unclaim", ActUnclaimItem, stranger, "u1", false},

		{"unknown action denied", Action("item.transmogrify"), admin, "a1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allowed(tc.act, tc.actor, tc.owner))
		})
	}
}
