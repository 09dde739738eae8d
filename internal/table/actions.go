package table

// RowActions is the local state of one row's action cell (which of its dialogs are open).
// Every row owns its own value; it is never lifted into the Model.
type RowActions struct {
	open map[string]bool
}

func (a *RowActions) Open(name string) {
	if a.open == nil {
		a.open = map[string]bool{}
	}
	a.open[name] = true
}

func (a *RowActions) Close(name string) {
	delete(a.open, name)
}

func (a *RowActions) IsOpen(name string) bool {
	return a.open[name]
}
