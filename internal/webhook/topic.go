package webhook

import "strings"

// Topic identifies the upstream resource and lifecycle action of a delivery.
// The resource selects the target collection; the action selects the dispatch
// branch.
type Topic struct {
	Resource string
	Action   string
}

// String returns the topic in its transport form, "<resource>/<action>".
func (t Topic) String() string {
	return t.Resource + "/" + t.Action
}

// ResolveTopic parses a topic header of the form "<resource>/<action>".
// The header must contain exactly one separator yielding two non-empty parts.
func ResolveTopic(header string) (Topic, error) {
	if header == "" {
		return Topic{}, ErrMissingTopic
	}

	parts := strings.Split(header, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Topic{}, ErrMalformedTopic
	}

	return Topic{Resource: parts[0], Action: parts[1]}, nil
}
