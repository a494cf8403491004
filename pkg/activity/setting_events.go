package activity

import (
	"strconv"
	"strings"
	"time"
)

// Verbs emitted by the settings core.
const (
	VerbOverrideSet       = "override.set"
	VerbOverrideCleared   = "override.cleared"
	VerbItemMoved         = "item.moved"
	VerbDependencyChanged = "dependency.changed"
)

// SettingEventInput describes the common fields for override lifecycle
// events.
type SettingEventInput struct {
	Path       string
	OldValue   any
	NewValue   any
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildOverrideSetEvent constructs a normalized event for an override write.
func BuildOverrideSetEvent(input SettingEventInput) Event {
	return buildSettingEvent(VerbOverrideSet, "override", input)
}

// BuildOverrideClearedEvent constructs a normalized event for an override
// removal (explicit reset or no-op suppression).
func BuildOverrideClearedEvent(input SettingEventInput) Event {
	return buildSettingEvent(VerbOverrideCleared, "override", input)
}

// BuildDependencyChangedEvent constructs an event describing a dependency
// satisfaction flip for a setting path.
func BuildDependencyChangedEvent(path string, satisfied bool) Event {
	return buildSettingEvent(VerbDependencyChanged, "setting", SettingEventInput{
		Path:     path,
		NewValue: satisfied,
	})
}

// MoveEventInput describes a completed drag-and-drop placement.
type MoveEventInput struct {
	ItemID     int64
	FromBucket int
	ToBucket   int
	Order      float64
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildItemMovedEvent constructs an event describing an item move between
// buckets or within one.
func BuildItemMovedEvent(input MoveEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["from_bucket"] = input.FromBucket
	metadata["to_bucket"] = input.ToBucket
	metadata["order"] = input.Order

	return Event{
		Verb:       VerbItemMoved,
		ObjectType: "item",
		ObjectID:   strconv.FormatInt(input.ItemID, 10),
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func buildSettingEvent(verb, objectType string, input SettingEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.Path)
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
