package models

// Status is the editorial lifecycle state of a medium entity.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusEditing    Status = "editing"
	StatusReady      Status = "ready"
	StatusPublished  Status = "published"
)

// Valid reports whether s is one of the five lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusEditing, StatusReady, StatusPublished:
		return true
	}
	return false
}

// NeedsAssignee reports whether a medium in this state must have an assigned user.
func (s Status) NeedsAssignee() bool {
	return s == StatusEditing || s == StatusReady || s == StatusPublished
}

// ListStatus mirrors [Status] and adds the list-only states new and assigned.
type ListStatus string

const (
	ListStatusNew        ListStatus = "new"
	ListStatusAssigned   ListStatus = "assigned"
	ListStatusNotStarted ListStatus = ListStatus(StatusNotStarted)
	ListStatusInProgress ListStatus = ListStatus(StatusInProgress)
	ListStatusEditing    ListStatus = ListStatus(StatusEditing)
	ListStatusReady      ListStatus = ListStatus(StatusReady)
	ListStatusPublished  ListStatus = ListStatus(StatusPublished)
)

func (s ListStatus) Valid() bool {
	return s == ListStatusNew || s == ListStatusAssigned || Status(s).Valid()
}

// MediumKind identifies which medium variant a [Medium] or [MediumRef] is.
type MediumKind string

const (
	KindArticle MediumKind = "article"
	KindSpotify MediumKind = "spotify"
	KindVideo   MediumKind = "video"
)

// MediumKinds lists every medium variant.
var MediumKinds = []MediumKind{KindArticle, KindSpotify, KindVideo}

func (k MediumKind) Valid() bool {
	return k == KindArticle || k == KindSpotify || k == KindVideo
}

// ContentType returns the content type that wraps this medium kind.
func (k MediumKind) ContentType() ContentType {
	return ContentType(k)
}

// DefaultType is the medium type used when a medium is created on behalf of a Content.
func (k MediumKind) DefaultType() string {
	switch k {
	case KindArticle:
		return ArticleTypeArticulo
	case KindSpotify:
		return SpotifyTypeGenero
	case KindVideo:
		return VideoTypeCustom
	}
	return ""
}

// Types returns the accepted type values for this medium kind.
func (k MediumKind) Types() []string {
	switch k {
	case KindArticle:
		return []string{ArticleTypeCronica, ArticleTypeFestival, ArticleTypeReview, ArticleTypeEntrevista, ArticleTypeArticulo}
	case KindSpotify:
		return []string{SpotifyTypeFestival, SpotifyTypeEspecial, SpotifyTypeGenero, SpotifyTypeOtras}
	case KindVideo:
		return []string{VideoTypeBest, VideoTypeCustom}
	}
	return nil
}

// HasLink reports whether the kind carries an external link.
func (k MediumKind) HasLink() bool { return k == KindArticle || k == KindSpotify }

// HasEditor reports whether the kind carries an editor besides the assigned user.
func (k MediumKind) HasEditor() bool { return k == KindArticle || k == KindVideo }

// Label is the display name used in user-facing messages.
func (k MediumKind) Label() string {
	switch k {
	case KindArticle:
		return "Article"
	case KindSpotify:
		return "Spotify"
	case KindVideo:
		return "Video"
	}
	return string(k)
}

// Article types
const (
	ArticleTypeCronica    = "cronica"
	ArticleTypeFestival   = "festival"
	ArticleTypeReview     = "review"
	ArticleTypeEntrevista = "entrevista"
	ArticleTypeArticulo   = "articulo"
)

// Spotify types
const (
	SpotifyTypeFestival = "festival"
	SpotifyTypeEspecial = "especial"
	SpotifyTypeGenero   = "genero"
	SpotifyTypeOtras    = "otras"
)

// Video types
const (
	VideoTypeBest   = "best"
	VideoTypeCustom = "custom"
)

// ContentType is the category of a [Content].
type ContentType string

const (
	ContentArticle ContentType = "article"
	ContentPhotos  ContentType = "photos"
	ContentSpotify ContentType = "spotify"
	ContentRadar   ContentType = "radar"
	ContentBest    ContentType = "best"
	ContentVideo   ContentType = "video"
	ContentReunion ContentType = "reunion"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentArticle, ContentPhotos, ContentSpotify, ContentRadar, ContentBest, ContentVideo, ContentReunion:
		return true
	}
	return false
}

// MediumKind returns the medium variant wrapped by this content type, if any.
func (t ContentType) MediumKind() (MediumKind, bool) {
	switch t {
	case ContentArticle:
		return KindArticle, true
	case ContentSpotify:
		return KindSpotify, true
	case ContentVideo:
		return KindVideo, true
	}
	return "", false
}

// RequiresPublicationDate reports whether contents of this type must always carry a publication date.
func (t ContentType) RequiresPublicationDate() bool {
	return t == ContentRadar || t == ContentReunion
}

// HasList reports whether contents of this type may own a [List].
func (t ContentType) HasList() bool {
	return t == ContentRadar || t == ContentBest || t == ContentVideo
}

// ListType is the scheduling cadence of a [List].
type ListType string

const (
	ListMonth   ListType = "month"
	ListWeek    ListType = "week"
	ListSpecial ListType = "special"
	ListVideo   ListType = "video"
)

func (t ListType) Valid() bool {
	return t == ListMonth || t == ListWeek || t == ListSpecial || t == ListVideo
}

// SyncsListDate reports whether the list date of this list type is mirrored onto its Content.
func (t ListType) SyncsListDate() bool {
	return t == ListWeek || t == ListMonth || t == ListVideo
}

// Special list types
const (
	SpecialWeb        = "web"
	SpecialApp        = "app"
	SpecialNoticias   = "noticias"
	SpecialVideos     = "videos"
	SpecialRiffValley = "riffValley"
	SpecialOtros      = "otros"
)

func validSpecialType(s string) bool {
	switch s {
	case SpecialWeb, SpecialApp, SpecialNoticias, SpecialVideos, SpecialRiffValley, SpecialOtros:
		return true
	}
	return false
}
