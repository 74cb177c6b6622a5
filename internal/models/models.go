package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a registered account as shown in the directory. The display
// name is fixed at registration; there is no edit path.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Message is one bottle sent from one account to another. TokenID is the
// public handle reactions and replies attach to; the internal ID never
// leaves the inbox views. SenderAlias is what the recipient sees, never the
// sender's real display name.
type Message struct {
	ID            uuid.UUID `json:"id"`
	TokenID       string    `json:"tokenId"`
	SenderID      uuid.UUID `json:"senderId"`
	RecipientID   uuid.UUID `json:"recipientId"`
	SenderAlias   string    `json:"senderAlias"`
	Content       string    `json:"content"`
	MoodEmoji     string    `json:"moodEmoji"`
	TrackID       string    `json:"spotifyTrackId,omitempty"`
	TrackName     string    `json:"spotifyTrackName,omitempty"`
	TrackArtist   string    `json:"spotifyArtist,omitempty"`
	TrackAlbumArt string    `json:"spotifyAlbumArt,omitempty"`
	TrackURI      string    `json:"spotifyUri,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ReactionType enumerates the allowed reaction buttons.
type ReactionType string

const (
	ReactionLike        ReactionType = "like"
	ReactionFunny       ReactionType = "funny"
	ReactionTouching    ReactionType = "touching"
	ReactionSurprising  ReactionType = "surprising"
	ReactionAppreciated ReactionType = "appreciated"
	ReactionIntriguing  ReactionType = "intriguing"
)

// ValidReactionType reports whether t is one of the six allowed types.
func ValidReactionType(t ReactionType) bool {
	switch t {
	case ReactionLike, ReactionFunny, ReactionTouching,
		ReactionSurprising, ReactionAppreciated, ReactionIntriguing:
		return true
	}
	return false
}

// Reaction is an anonymous reaction row keyed to a message token. It
// carries no account id; uniqueness per viewer is a UI concern only.
type Reaction struct {
	ID           uuid.UUID    `json:"id"`
	MessageToken string       `json:"messageToken"`
	ReactionType ReactionType `json:"reactionType"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// SenderRole labels a reply relative to its parent message, not to an
// account. Viewer identity is derived by comparing the viewer against the
// parent's sender/recipient ids.
type SenderRole string

const (
	RoleOriginalSender SenderRole = "original_sender"
	RoleRecipient      SenderRole = "recipient"
)

// RoleFor returns the role label a user gets when replying in the thread
// under msg: the original sender keeps their role, everyone else writes as
// the recipient side.
func RoleFor(userID uuid.UUID, msg *Message) SenderRole {
	if userID == msg.SenderID {
		return RoleOriginalSender
	}
	return RoleRecipient
}

// Reply is one append-only entry in a message's thread, ordered by
// CreatedAt ascending.
type Reply struct {
	ID           uuid.UUID  `json:"id"`
	MessageToken string     `json:"messageToken"`
	SenderType   SenderRole `json:"senderType"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// IsMine reports whether the viewer wrote this reply. A reply is the
// viewer's own when its role matches the viewer's relationship to the
// parent message. Pure derivation over loaded data; identical before and
// after a reload.
func (r *Reply) IsMine(viewerID uuid.UUID, msg *Message) bool {
	return (r.SenderType == RoleOriginalSender && viewerID == msg.SenderID) ||
		(r.SenderType == RoleRecipient && viewerID == msg.RecipientID)
}
