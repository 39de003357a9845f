// Package teams talks to the chat platform's bot connector API: posting
// messages and cards into a channel and modelling inbound bot activities.
package teams

// ChannelAccount identifies a user or bot on the chat platform.
type ChannelAccount struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	AADObjectID string `json:"aadObjectId,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Mention is the entity attached to a message to render an @-mention.
// Text must contain the <at>...</at> marker matching the message text.
type Mention struct {
	Type      string         `json:"type"`
	Mentioned ChannelAccount `json:"mentioned"`
	Text      string         `json:"text"`
}

// Attachment carries rich content such as an adaptive card.
type Attachment struct {
	ContentType string `json:"contentType"`
	Content     any    `json:"content"`
}

// Activity is the bot protocol's message envelope, inbound and outbound.
type Activity struct {
	Type         string               `json:"type"`
	ID           string               `json:"id,omitempty"`
	ServiceURL   string               `json:"serviceUrl,omitempty"`
	ChannelID    string               `json:"channelId,omitempty"`
	From         *ChannelAccount      `json:"from,omitempty"`
	Recipient    *ChannelAccount      `json:"recipient,omitempty"`
	Conversation *ConversationAccount `json:"conversation,omitempty"`
	ReplyToID    string               `json:"replyToId,omitempty"`
	Text         string               `json:"text,omitempty"`
	TextFormat   string               `json:"textFormat,omitempty"`
	MembersAdded []ChannelAccount     `json:"membersAdded,omitempty"`
	Entities     []Mention            `json:"entities,omitempty"`
	Attachments  []Attachment         `json:"attachments,omitempty"`
}

// Activity types used by the relay and the bot handler.
const (
	ActivityTypeMessage            = "message"
	ActivityTypeConversationUpdate = "conversationUpdate"
)

// NewTextActivity builds a plain text message activity.
func NewTextActivity(text string) Activity {
	return Activity{Type: ActivityTypeMessage, Text: text}
}

// NewMentionActivity builds a message that @-mentions the given identity.
func NewMentionActivity(mentionID, name string) Activity {
	marker := "<at>" + name + "</at>"
	return Activity{
		Type:       ActivityTypeMessage,
		Text:       marker + " you have a new ticket assignment.",
		TextFormat: "xml",
		Entities: []Mention{{
			Type:      "mention",
			Mentioned: ChannelAccount{ID: mentionID, Name: name},
			Text:      marker,
		}},
	}
}

// NewCardActivity wraps an adaptive card in a message activity.
func NewCardActivity(card AdaptiveCard) Activity {
	return Activity{
		Type: ActivityTypeMessage,
		Attachments: []Attachment{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			Content:     card,
		}},
	}
}
