package models

// Team represents a team entity. Members holds member user IDs in join
// order; the owner is always present in Members and OwnerID always matches
// the one member whose role is owner.
type Team struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	OwnerID     string   `json:"ownerId"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Members     []string `json:"members"`
}

// HasMember reports whether the given user ID is in the member list.
func (t *Team) HasMember(userID string) bool {
	for _, id := range t.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// RemoveMemberID removes a user ID from the member list, preserving order.
func (t *Team) RemoveMemberID(userID string) {
	members := t.Members[:0]
	for _, id := range t.Members {
		if id != userID {
			members = append(members, id)
		}
	}
	t.Members = members
}

// Announcement is an append-only team notice. Immutable once created.
type Announcement struct {
	TeamID      string `json:"teamId"`
	Message     string `json:"message"`
	CreatedByID string `json:"createdById"`
}

// Deal statuses. Only the PENDING to ACCEPTED transition is modelled.
const (
	DealPending  = "PENDING"
	DealAccepted = "ACCEPTED"
)

// SponsorDeal represents a sponsorship offer made to a team.
type SponsorDeal struct {
	ID     string `json:"id"`
	TeamID string `json:"teamId"`
	Status string `json:"status"`
}

// InviteToken is one token of a team's current invite generation.
// Regenerating the invite link invalidates every earlier token.
type InviteToken struct {
	Token  string `json:"token"`
	TeamID string `json:"teamId"`
}
