package domain

// Selection is a user's choice of one task with a day count, scoped to a
// WBS code and project. It only lives for the duration of one submission.
type Selection struct {
	Task    TaskDef
	Days    int
	WBSCode string
	Project string
}

// SubTaskItem is one percentage stage generated from a Selection.
type SubTaskItem struct {
	Label      string
	Percentage int
	Project    string
	WBSType    string
}

// Payload is the JSON body posted to the automation webhook for one item.
type Payload struct {
	Tarefa    string `json:"tarefa"`
	Projeto   string `json:"projeto"`
	WBSType   string `json:"wbs_type"`
	Categoria string `json:"categoria,omitempty"`
}
