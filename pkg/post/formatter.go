package post

import "time"

const (
	dateLayout = "2006-01-02"

	// UnknownCategory labels codes missing from the category table.
	UnknownCategory = "Unknown"
)

// Content holds the localized bodies. Every language key is always
// serialized, with null for languages that were never written.
type Content struct {
	En *string `json:"en"`
	Pl *string `json:"pl"`
	Pt *string `json:"pt"`
}

// FormattedPost is the client-facing view of a Post.
type FormattedPost struct {
	Id            PostId  `json:"id"`
	DateEpoch     *int64  `json:"date_epoch"`
	DateString    *string `json:"date_string"`
	Title         *string `json:"title"`
	Image         *string `json:"image"`
	CategoryLabel string  `json:"category_label"`
	Content       Content `json:"content"`
}

func (c Category) Label() string {
	switch c {
	case CategoryUnclassified:
		return "Unclassified"
	case CategoryThoughts:
		return "Thoughts"
	case CategoryTravel:
		return "Travel"
	default:
		return UnknownCategory
	}
}

// Formatter turns stored posts into FormattedPost values. Dates are
// converted to epoch seconds at midnight in Location.
type Formatter struct {
	Location *time.Location
}

func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{Location: loc}
}

// Format panics when p has no id: every stored post gets one on insert.
func (f Formatter) Format(p *Post) FormattedPost {
	if p == nil || p.Id == "" {
		panic("post: formatting a post without an id")
	}

	fp := FormattedPost{
		Id:            p.Id,
		Title:         p.Title,
		Image:         p.Image,
		CategoryLabel: p.Category.Label(),
		Content: Content{
			En: p.En,
			Pl: p.Pl,
			Pt: p.Pt,
		},
	}

	if p.Date != nil {
		loc := f.Location
		if loc == nil {
			loc = time.Local
		}
		y, m, d := p.Date.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
		epoch := midnight.Unix()
		str := midnight.Format(dateLayout)
		fp.DateEpoch = &epoch
		fp.DateString = &str
	}

	return fp
}

// FormatAll never returns nil, so an empty result serializes as [].
func (f Formatter) FormatAll(posts []*Post) []FormattedPost {
	res := make([]FormattedPost, 0, len(posts))
	for _, p := range posts {
		res = append(res, f.Format(p))
	}
	return res
}
