package settingsform

import "colrev-settings/internal/model"

// Field identifies one editable field of a project.
type Field int

const (
	FieldTitle Field = iota
	FieldAuthors
	FieldKeywords
	FieldProtocol
	FieldReviewType
	FieldIDPattern
	FieldShareStatReq
	FieldDelayAutomatedProcessing
	FieldCurationURL
	FieldCuratedMasterdata
	FieldCuratedFields

	fieldCount
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindSelect
	kindSwitch
	kindList
)

type fieldSpec struct {
	label string
	help  string
	kind  fieldKind
	// absentIfEmpty maps "" to a nil value instead of empty text.
	absentIfEmpty bool
}

// Fields are rendered in this order.
var fieldSpecs = [fieldCount]fieldSpec{
	FieldTitle:                    {label: "Title", kind: kindText},
	FieldAuthors:                  {label: "Authors", kind: kindList},
	FieldKeywords:                 {label: "Keywords", kind: kindList},
	FieldProtocol:                 {label: "Protocol", kind: kindText, absentIfEmpty: true},
	FieldReviewType:               {label: "Review Type", kind: kindText},
	FieldIDPattern:                {label: "ID Pattern", kind: kindSelect, help: "Specify the format of record identifiers (BibTex citation keys)."},
	FieldShareStatReq:             {label: "Share Stat Req", kind: kindSelect},
	FieldDelayAutomatedProcessing: {label: "Delay Automated Processing", kind: kindSwitch},
	FieldCurationURL:              {label: "Curation Url", kind: kindText, absentIfEmpty: true},
	FieldCuratedMasterdata:        {label: "Curated Masterdata", kind: kindSwitch},
	FieldCuratedFields:            {label: "Curated Fields", kind: kindList},
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldSpecs[f].label
}

func (f Field) kind() fieldKind { return fieldSpecs[f].kind }

func (f Field) valid() bool { return f >= 0 && f < fieldCount }

// Mirror is the form's local copy of a project's scalar fields, used to render
// controls. It is rebuilt wholesale whenever the form is handed a different
// project or schema.
type Mirror struct {
	Title                    string
	Protocol                 *string
	ReviewType               string
	IDPattern                string
	ShareStatReq             string
	DelayAutomatedProcessing bool
	CurationURL              *string
	CuratedMasterdata        bool
}

func mirrorOf(p *model.Project) Mirror {
	if p == nil {
		return Mirror{}
	}
	return Mirror{
		Title:                    p.Title,
		Protocol:                 p.Protocol,
		ReviewType:               p.ReviewType,
		IDPattern:                p.IDPattern,
		ShareStatReq:             p.ShareStatReq,
		DelayAutomatedProcessing: p.DelayAutomatedProcessing,
		CurationURL:              p.CurationURL,
		CuratedMasterdata:        p.CuratedMasterdata,
	}
}

func (m Mirror) text(f Field) string {
	switch f {
	case FieldTitle:
		return m.Title
	case FieldProtocol:
		return model.Deref(m.Protocol)
	case FieldReviewType:
		return m.ReviewType
	case FieldIDPattern:
		return m.IDPattern
	case FieldShareStatReq:
		return m.ShareStatReq
	case FieldCurationURL:
		return model.Deref(m.CurationURL)
	}
	return ""
}

func (m Mirror) flag(f Field) bool {
	switch f {
	case FieldDelayAutomatedProcessing:
		return m.DelayAutomatedProcessing
	case FieldCuratedMasterdata:
		return m.CuratedMasterdata
	}
	return false
}

func listOf(p *model.Project, f Field) []string {
	if p == nil {
		return nil
	}
	switch f {
	case FieldAuthors:
		return p.Authors
	case FieldKeywords:
		return p.Keywords
	case FieldCuratedFields:
		return p.CuratedFields
	}
	return nil
}

// coerceText applies a text field's coercion to a raw control value.
func coerceText(f Field, raw string) *string {
	if raw == "" && fieldSpecs[f].absentIfEmpty {
		return nil
	}
	return &raw
}
