package webhook

// KeyField is the designated identifier field shared by all resource types.
// It is used to match the existing stored document on upsert and delete.
const KeyField = "id"

// ActionKind is the dispatch branch selected by a topic's action verb.
type ActionKind int

const (
	ActionUnrecognized ActionKind = iota
	ActionUpsert
	ActionDelete
)

var actionKinds = map[string]ActionKind{
	"create":     ActionUpsert,
	"update":     ActionUpsert,
	"updated":    ActionUpsert,
	"success":    ActionUpsert,
	"challenged": ActionUpsert,
	"failure":    ActionUpsert,
	"delete":     ActionDelete,
	"deleted":    ActionDelete,
	"revoke":     ActionDelete,
}

// ClassifyAction maps an action verb onto its dispatch branch. Verbs outside
// the known vocabulary map to ActionUnrecognized.
func ClassifyAction(action string) ActionKind {
	kind, ok := actionKinds[action]
	if !ok {
		return ActionUnrecognized
	}
	return kind
}
