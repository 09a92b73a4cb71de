package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAria      = "aria" // primary voice agent
	ChatMessageRoleKai       = "kai"  // debate counterpart agent
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Instruction categories. The slice below is the editorial rendering order
// and must stay in sync with this set.
const (
	CategoryExplicitInstruction = "explicit_instruction"
	CategoryAddressPreference   = "address_preference"
	CategoryResponseStyle       = "response_style"
	CategoryBehaviorRule        = "behavior_rule"
	CategoryCommunicationStyle  = "communication_style"
	CategoryCorrection          = "correction"
	CategoryTopicPreference     = "topic_preference"
	CategoryPersonalInfo        = "personal_info"
	CategoryWorkContext         = "work_context"
	CategorySchedulePreference  = "schedule_preference"
	CategorySpeakingPattern     = "speaking_pattern"
	CategoryLearning            = "learning"
	CategoryOther               = "other"
)

// CategoryOrder fixes the order instruction groups appear in the rendered
// context block, independent of storage order.
var CategoryOrder = []string{
	CategoryExplicitInstruction,
	CategoryAddressPreference,
	CategoryResponseStyle,
	CategoryBehaviorRule,
	CategoryCommunicationStyle,
	CategoryCorrection,
	CategoryTopicPreference,
	CategoryPersonalInfo,
	CategoryWorkContext,
	CategorySchedulePreference,
	CategorySpeakingPattern,
	CategoryLearning,
	CategoryOther,
}

// CategoryLabels maps categories to the group headers emitted in the block.
var CategoryLabels = map[string]string{
	CategoryExplicitInstruction: "Explicit Instructions",
	CategoryAddressPreference:   "How to Address the User",
	CategoryResponseStyle:       "Response Style",
	CategoryBehaviorRule:        "Behavior Rules",
	CategoryCommunicationStyle:  "Communication Style",
	CategoryCorrection:          "Corrections",
	CategoryTopicPreference:     "Topic Preferences",
	CategoryPersonalInfo:        "Personal Information",
	CategoryWorkContext:         "Work Context",
	CategorySchedulePreference:  "Schedule Preferences",
	CategorySpeakingPattern:     "Speaking Patterns",
	CategoryLearning:            "Learned from Conversations",
	CategoryOther:               "Other",
}

const (
	InstructionSourceExplicit   = "explicit"
	InstructionSourceInferred   = "inferred"
	InstructionSourceCorrection = "correction"
	InstructionSourcePreference = "preference"
	InstructionSourcePattern    = "pattern"

	InstructionPriorityMin = 1
	InstructionPriorityMax = 10

	// Priority at and above which an instruction gets the IMPORTANT marker.
	InstructionPriorityHighlight = 8

	ContextBlockHeader    = "## User Personalization"
	ContextImportantLabel = "[IMPORTANT]"
)

const (
	PersonProvenanceManual   = "manual"
	PersonProvenanceDetected = "detected"
	PersonProvenanceMigrated = "migrated"
)

// Defaults for the turn-context assembly. All of them are overridable via
// config; these are the fallbacks.
const (
	DefaultContextDayWindow        = 7
	DefaultContextMaxConversations = 10
	DefaultContextMaxMessages      = 50
	DefaultAskCooldownHours        = 24
	DefaultMaxAskCandidates        = 3
	DefaultMaxContextSnippets      = 10
	DefaultActiveInstructionLimit  = 100
	DefaultConversationPreviewSize = 3
)

const (
	InstructionAppliedTopic = "INSTRUCTION_APPLIED"
)
