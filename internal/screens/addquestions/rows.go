package addquestions

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/authoring"
	"github.com/abhisek/eduz/internal/catalog"
	"github.com/abhisek/eduz/internal/ui/components"
)

type rowKind int

const (
	rowQuestion rowKind = iota
	rowOption
	rowCorrect
	rowField
	rowDifficulty
	rowAddBlock
	rowPreview
	rowSubmit
)

// row is one focusable line of the form.
type row struct {
	kind  rowKind
	block int
	opt   int
	field catalog.Field
}

func (r row) text() bool {
	return r.kind == rowQuestion || r.kind == rowOption
}

func (r row) selects() bool {
	return r.kind == rowCorrect || r.kind == rowField || r.kind == rowDifficulty
}

func (r row) button() bool {
	return r.kind >= rowAddBlock
}

func layoutRows(f *authoring.Form) []row {
	var rows []row
	for bi, b := range f.Blocks {
		rows = append(rows, row{kind: rowQuestion, block: bi})
		for j := range b.Options {
			rows = append(rows, row{kind: rowOption, block: bi, opt: j})
		}
		rows = append(rows, row{kind: rowCorrect, block: bi})
		for _, fld := range catalog.Fields {
			rows = append(rows, row{kind: rowField, block: bi, field: fld})
		}
		rows = append(rows, row{kind: rowDifficulty, block: bi})
	}
	return append(rows,
		row{kind: rowAddBlock, block: -1},
		row{kind: rowPreview, block: -1},
		row{kind: rowSubmit, block: -1},
	)
}

// firstRowOf returns the index of block bi's question row.
func firstRowOf(rows []row, bi int) int {
	i := slices.IndexFunc(rows, func(r row) bool { return r.kind == rowQuestion && r.block == bi })
	return max(i, 0)
}

var fieldLabels = map[catalog.Field]string{
	catalog.FieldLevel:   "Level",
	catalog.FieldSubject: "Subject",
	catalog.FieldTopic:   "Topic",
	catalog.FieldBranch:  "Branch",
	catalog.FieldSystem:  "System",
}

// selectFor builds the dropdown of a select row from the block and the
// catalog cache.
func selectFor(r row, b *authoring.Block, cache *catalog.Cache) components.SelectBox {
	switch r.kind {
	case rowCorrect:
		s := components.SelectBox{Label: "Correct"}
		for j, o := range b.Options {
			if o == "" {
				o = "(empty)"
			}
			s.Options = append(s.Options, components.Option{Label: fmt.Sprintf("%d. %s", j+1, o), Value: strconv.Itoa(j)})
		}
		if b.Correct >= 0 {
			s.Value = strconv.Itoa(b.Correct)
		}
		return s

	case rowDifficulty:
		s := components.SelectBox{Label: "Difficulty", Value: strconv.Itoa(b.Difficulty)}
		for d := authoring.MinDifficulty; d <= authoring.MaxDifficulty; d++ {
			s.Options = append(s.Options, components.Option{
				Label: fmt.Sprintf("%d - %s", d, authoring.DifficultyLabel(d)),
				Value: strconv.Itoa(d),
			})
		}
		return s
	}

	sel := &b.Sel
	s := components.SelectBox{
		Label:       fieldLabels[r.field],
		AllowCreate: true,
		Disabled:    !sel.Enabled(r.field),
	}
	switch r.field {
	case catalog.FieldLevel:
		levels := cache.Levels()
		if sel.Level != "" && !slices.Contains(levels, sel.Level) {
			levels = append(levels, sel.Level)
		}
		for _, l := range levels {
			s.Options = append(s.Options, components.Option{Label: l, Value: l})
		}
		s.Value = sel.Level
	case catalog.FieldSubject:
		for _, sub := range cache.SubjectsForLevel(sel.Level) {
			s.Options = append(s.Options, components.Option{Label: sub.Name, Value: sub.ID.String()})
		}
		s.Value = idValue(sel.SubjectID)
	case catalog.FieldTopic:
		for _, t := range cache.TopicsForSubject(sel.SubjectID) {
			s.Options = append(s.Options, components.Option{Label: t.Name, Value: t.ID.String()})
		}
		s.Value = idValue(sel.TopicID)
	case catalog.FieldBranch:
		s.Options = append(s.Options, components.Option{Label: "(none)", Value: ""})
		for _, br := range cache.BranchesForSubject(sel.SubjectID) {
			s.Options = append(s.Options, components.Option{Label: br.Name, Value: br.ID.String()})
		}
		s.Value = idValue(sel.BranchID)
	case catalog.FieldSystem:
		s.Options = append(s.Options, components.Option{Label: "(none)", Value: ""})
		for _, sys := range cache.Systems() {
			s.Options = append(s.Options, components.Option{Label: sys.Name, Value: sys.Name})
		}
		s.Value = sel.System
	}
	return s
}

func idValue(id api.ID) string {
	if id == 0 {
		return ""
	}
	return id.String()
}
