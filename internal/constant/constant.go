package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Redis key prefixes
	QuotaKeyPrefix   = "quota:dreams"
	AiCacheKeyPrefix = "ai_cache"

	// Event subjects published to NATS JetStream
	EventDreamCreated          = "events.dream.created"
	EventDreamInterpreted      = "events.dream.interpreted"
	EventDreamDeleted          = "events.dream.deleted"
	EventSubscriptionActivated = "events.subscription.activated"
	EventSubscriptionExpired   = "events.subscription.expired"

	// Watermill topic for the embedding pipeline
	EmbedDreamTopic = "embed_dream"

	// Interpretation languages
	LanguageRussian = "ru"
	LanguageEnglish = "en"
)
