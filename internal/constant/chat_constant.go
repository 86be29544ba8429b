package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

const (
	// MaxMessageLength caps user-authored message content.
	MaxMessageLength = 10000
	MaxTitleLength   = 200
)

// AssistantFallbackText is appended as the assistant turn whenever the
// response generator fails. The pipeline never surfaces generator errors
// to the caller.
const AssistantFallbackText = "I'm sorry, I couldn't come up with a response just now. Please try sending your message again."

const DefaultConversationTitle = "New conversation"

// Realtime event types pushed over the websocket channel.
const (
	RealtimeEventMessageReceived     = "message-received"
	RealtimeEventConversationRenamed = "conversation-renamed"
)

// Attachment variants.
const (
	AttachmentTypeCode          = "code"
	AttachmentTypeImage         = "image"
	AttachmentTypeFile          = "file"
	AttachmentTypeVisualization = "visualization"
)
