package schema

// TaskItemLabelTable represents the 'tasks.item_label' join table
type TaskItemLabelTable struct {
	Table   string
	TaskID  string
	LabelID string
}

// TaskItemLabel is the schema definition for tasks.item_label
var TaskItemLabel = TaskItemLabelTable{
	Table:   "tasks.item_label",
	TaskID:  "taskid",
	LabelID: "labelid",
}
