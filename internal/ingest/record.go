package ingest

import "strings"

// Field identifies one canonical column of the video sheet.
type Field int

const (
	FieldPublishDate Field = iota
	FieldVideoTitle
	FieldChannelName
	FieldChannelAvatar
	FieldVideoDescription
	FieldViews
	FieldLikes
	FieldComments
	FieldVideoURL
	FieldThumbnail
	FieldDuration
	FieldDurationSec
	FieldViewRank
	FieldDaysSincePublished
	FieldViewsPerDay
	FieldTrendingRank
	FieldRankMomentum
	FieldCreativeAdvice
	FieldLastDataUpdate

	fieldCount
)

// FieldKind is the value type a field is coerced to.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
)

// FieldSpec describes a canonical field: its header name and value type.
type FieldSpec struct {
	Field Field
	Name  string // canonical header name, matched after normalization
	Kind  FieldKind
}

// fieldSpecs is the closed field set in sheet order. The numeric subset is
// fixed here alongside the record type it populates.
var fieldSpecs = [fieldCount]FieldSpec{
	{FieldPublishDate, "PublishDate", KindText},
	{FieldVideoTitle, "VideoTitle", KindText},
	{FieldChannelName, "ChannelName", KindText},
	{FieldChannelAvatar, "ChannelAvatar", KindText},
	{FieldVideoDescription, "VideoDescription", KindText},
	{FieldViews, "Views", KindNumber},
	{FieldLikes, "Likes", KindNumber},
	{FieldComments, "Comments", KindNumber},
	{FieldVideoURL, "VideoURL", KindText},
	{FieldThumbnail, "Thumbnail", KindText},
	{FieldDuration, "Duration", KindText},
	{FieldDurationSec, "DurationSec", KindNumber},
	{FieldViewRank, "ViewRank", KindNumber},
	{FieldDaysSincePublished, "DaysSincePublished", KindNumber},
	{FieldViewsPerDay, "ViewsPerDay", KindNumber},
	{FieldTrendingRank, "TrendingRank", KindNumber},
	{FieldRankMomentum, "RankMomentum", KindNumber},
	{FieldCreativeAdvice, "CreativeAdvice", KindText},
	{FieldLastDataUpdate, "LastDataUpdate", KindText},
}

// Fields returns the specs of every canonical field in sheet order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs[:])
	return out
}

// String returns the canonical header name.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "Unknown"
	}
	return fieldSpecs[f].Name
}

// Kind reports whether f holds text or a number.
func (f Field) Kind() FieldKind {
	if f < 0 || f >= fieldCount {
		return KindText
	}
	return fieldSpecs[f].Kind
}

// VideoRecord is one typed row of the sheet. Text fields are trimmed and
// default to ""; numeric fields are always finite and default to 0.
type VideoRecord struct {
	PublishDate        string  `json:"PublishDate"`
	VideoTitle         string  `json:"VideoTitle"`
	ChannelName        string  `json:"ChannelName"`
	ChannelAvatar      string  `json:"ChannelAvatar"`
	VideoDescription   string  `json:"VideoDescription"`
	Views              float64 `json:"Views"`
	Likes              float64 `json:"Likes"`
	Comments           float64 `json:"Comments"`
	VideoURL           string  `json:"VideoURL"`
	Thumbnail          string  `json:"Thumbnail"`
	Duration           string  `json:"Duration"`
	DurationSec        float64 `json:"DurationSec"`
	ViewRank           float64 `json:"ViewRank"`
	DaysSincePublished float64 `json:"DaysSincePublished"`
	ViewsPerDay        float64 `json:"ViewsPerDay"`
	TrendingRank       float64 `json:"TrendingRank"`
	RankMomentum       float64 `json:"RankMomentum"`
	CreativeAdvice     string  `json:"CreativeAdvice"`
	LastDataUpdate     string  `json:"LastDataUpdate"`
}

// textField returns a pointer to the storage of a text field, or nil.
func (r *VideoRecord) textField(f Field) *string {
	switch f {
	case FieldPublishDate:
		return &r.PublishDate
	case FieldVideoTitle:
		return &r.VideoTitle
	case FieldChannelName:
		return &r.ChannelName
	case FieldChannelAvatar:
		return &r.ChannelAvatar
	case FieldVideoDescription:
		return &r.VideoDescription
	case FieldVideoURL:
		return &r.VideoURL
	case FieldThumbnail:
		return &r.Thumbnail
	case FieldDuration:
		return &r.Duration
	case FieldCreativeAdvice:
		return &r.CreativeAdvice
	case FieldLastDataUpdate:
		return &r.LastDataUpdate
	}
	return nil
}

// numberField returns a pointer to the storage of a numeric field, or nil.
func (r *VideoRecord) numberField(f Field) *float64 {
	switch f {
	case FieldViews:
		return &r.Views
	case FieldLikes:
		return &r.Likes
	case FieldComments:
		return &r.Comments
	case FieldDurationSec:
		return &r.DurationSec
	case FieldViewRank:
		return &r.ViewRank
	case FieldDaysSincePublished:
		return &r.DaysSincePublished
	case FieldViewsPerDay:
		return &r.ViewsPerDay
	case FieldTrendingRank:
		return &r.TrendingRank
	case FieldRankMomentum:
		return &r.RankMomentum
	}
	return nil
}

// Text returns the value of a text field ("" for numeric fields).
func (r *VideoRecord) Text(f Field) string {
	if p := r.textField(f); p != nil {
		return *p
	}
	return ""
}

// Number returns the value of a numeric field (0 for text fields).
func (r *VideoRecord) Number(f Field) float64 {
	if p := r.numberField(f); p != nil {
		return *p
	}
	return 0
}

// Valid reports whether the record can be displayed: it needs a title and
// at least one of a video URL or a thumbnail. Numeric values are never
// checked.
func (r *VideoRecord) Valid() bool {
	return r.VideoTitle != "" && (r.VideoURL != "" || r.Thumbnail != "")
}

// BuildRecord produces the record for one data row. Every canonical field is
// populated; missing columns and short rows yield defaults.
func BuildRecord(row RawRow, hm HeaderMap) VideoRecord {
	cols := resolveColumns(hm)
	return buildRecord(row, &cols)
}

func buildRecord(row RawRow, cols *columnIndex) VideoRecord {
	var rec VideoRecord

	for _, spec := range fieldSpecs {
		raw := cols.cell(row, spec.Field)
		switch spec.Kind {
		case KindNumber:
			*rec.numberField(spec.Field) = ToNumber(raw)
		default:
			*rec.textField(spec.Field) = strings.TrimSpace(raw)
		}
	}

	if rec.VideoDescription == "" && rec.CreativeAdvice != "" {
		rec.VideoDescription = rec.CreativeAdvice
	}

	return rec
}

// Filter returns the valid records in their original order.
func Filter(records []VideoRecord) []VideoRecord {
	out := make([]VideoRecord, 0, len(records))
	for i := range records {
		if records[i].Valid() {
			out = append(out, records[i])
		}
	}
	return out
}
