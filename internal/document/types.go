// Package document defines the shared portfolio aggregate mirrored to every
// connected viewer, plus the community-achievement records kept outside it.
package document

import "time"

type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

func (l Language) Valid() bool {
	return l == LanguageArabic || l == LanguageEnglish
}

// Direction returns the text direction for a display language.
func (l Language) Direction() string {
	if l == LanguageArabic {
		return "rtl"
	}
	return "ltr"
}

// Translatable is a bilingual field stored as an {ar, en} pair.
type Translatable struct {
	Ar string `json:"ar"`
	En string `json:"en"`
}

func (t Translatable) In(lang Language) string {
	if lang == LanguageEnglish {
		return t.En
	}
	return t.Ar
}

type StudentInfo struct {
	Name   string       `json:"name"`
	Grade  Translatable `json:"grade"`
	School string       `json:"school"`
	Email  string       `json:"email"`
	About  Translatable `json:"about"`
}

type EducationItem struct {
	ID          string       `json:"id"`
	Degree      Translatable `json:"degree"`
	Institution Translatable `json:"institution"`
	Years       string       `json:"years"`
}

type Skill struct {
	ID   string       `json:"id"`
	Name Translatable `json:"name"`
	// Level is a 0-100 proficiency.
	Level int `json:"level"`
}

type VolunteerWork struct {
	ID           string       `json:"id"`
	Organization Translatable `json:"organization"`
	Role         Translatable `json:"role"`
	Description  Translatable `json:"description"`
	Years        string       `json:"years"`
}

type Hobby struct {
	ID   string       `json:"id"`
	Name Translatable `json:"name"`
	Icon string       `json:"icon"`
}

type GoalType string

const (
	GoalShortTerm GoalType = "short"
	GoalLongTerm  GoalType = "long"
)

// Goal carries a type discriminator that must agree with the list holding
// it. The containing list is authoritative; writers force the discriminator
// to match on every add and update.
type Goal struct {
	ID   string       `json:"id"`
	Text Translatable `json:"text"`
	Type GoalType     `json:"type"`
}

type Goals struct {
	ShortTerm []Goal `json:"shortTerm"`
	LongTerm  []Goal `json:"longTerm"`
}

type GalleryItemType string

const (
	GalleryImage GalleryItemType = "image"
	GalleryVideo GalleryItemType = "video"
	GalleryPDF   GalleryItemType = "pdf"
)

func (t GalleryItemType) Valid() bool {
	return t == GalleryImage || t == GalleryVideo || t == GalleryPDF
}

type GalleryItem struct {
	ID           string          `json:"id"`
	Title        Translatable    `json:"title"`
	Description  Translatable    `json:"description"`
	Type         GalleryItemType `json:"type"`
	Year         int             `json:"year"`
	URL          string          `json:"url"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty"`
}

type FeaturedProject struct {
	Title       Translatable `json:"title"`
	Description Translatable `json:"description"`
	Details     Translatable `json:"details"`
	ImageURL    string       `json:"imageUrl"`
}

type Evaluation struct {
	ID      string       `json:"id"`
	Author  string       `json:"author"`
	Role    Translatable `json:"role"`
	Comment Translatable `json:"comment"`
}

// Portfolio is the single shared aggregate root. It is owned by the store;
// in-memory copies are caches refreshed on every push notification.
type Portfolio struct {
	StudentInfo     StudentInfo     `json:"studentInfo"`
	Education       []EducationItem `json:"education"`
	Skills          []Skill         `json:"skills"`
	VolunteerWork   []VolunteerWork `json:"volunteerWork"`
	Hobbies         []Hobby         `json:"hobbies"`
	Goals           Goals           `json:"goals"`
	Gallery         []GalleryItem   `json:"gallery"`
	FeaturedProject FeaturedProject `json:"featuredProject"`
	Evaluations     []Evaluation    `json:"evaluations"`
}

// CommunityAchievement is a guestbook entry. It lives in its own
// collection outside the portfolio aggregate: appended by the public,
// deletable only in edit mode, listed newest first.
type CommunityAchievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Achievement string    `json:"achievement"`
	CreatedAt   time.Time `json:"createdAt"`
}
