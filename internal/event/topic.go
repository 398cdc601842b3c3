package event

import "strings"

// Topic is a dotted event name or subscription pattern.
type Topic string

// Wildcard segments for patterns.
const (
	WildcardSingle = "*"
	WildcardMulti  = "**"
	Separator      = "."
)

// Topics published by blockdnd.
const (
	TopicDocumentChanged   Topic = "document.changed"
	TopicDocumentSaved     Topic = "document.saved"
	TopicLayoutInvalidated Topic = "layout.invalidated"
	TopicConfigReloaded    Topic = "config.reloaded"
	TopicDragStarted       Topic = "drag.started"
	TopicDragCommitted     Topic = "drag.committed"
	TopicDragCancelled     Topic = "drag.cancelled"
)

// Segments returns the topic split on the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsPattern reports whether the topic contains wildcard segments.
func (t Topic) IsPattern() bool {
	for _, s := range t.Segments() {
		if s == WildcardSingle || s == WildcardMulti {
			return true
		}
	}
	return false
}

// Matches reports whether the concrete topic t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	if t == "" || pattern == "" {
		return false
	}
	return matchSegments(pattern.Segments(), t.Segments())
}

func matchSegments(pattern, topic []string) bool {
	if len(pattern) == 0 {
		return len(topic) == 0
	}

	switch pattern[0] {
	case WildcardMulti:
		for i := 0; i <= len(topic); i++ {
			if matchSegments(pattern[1:], topic[i:]) {
				return true
			}
		}
		return false
	case WildcardSingle:
		return len(topic) > 0 && matchSegments(pattern[1:], topic[1:])
	default:
		return len(topic) > 0 && pattern[0] == topic[0] && matchSegments(pattern[1:], topic[1:])
	}
}
