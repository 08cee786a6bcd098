package models

// Content collections managed through the admin dashboard. These are thin
// records with no behaviour; the content service treats them uniformly.

type Announcement struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Date   string `json:"date"`
	Pinned bool   `json:"pinned"`
}

type CabinetMember struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Role      string            `json:"role"`
	Degree    string            `json:"degree"`
	AgNo      string            `json:"agNo"`
	Interests []string          `json:"interests"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	Summary   string            `json:"summary"`
	Avatar    string            `json:"avatar"`
	Socials   map[string]string `json:"socials"`
}

type FacultyMember struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	DepartmentRole  string            `json:"departmentRole"`
	Education       string            `json:"education"`
	ExperienceYears int               `json:"experienceYears"`
	Expertise       []string          `json:"expertise"`
	Courses         []string          `json:"courses"`
	Universities    []string          `json:"universities"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Summary         string            `json:"summary"`
	Avatar          string            `json:"avatar"`
	Socials         map[string]string `json:"socials"`
}

type Program struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

type Degree struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

type GalleryAlbum struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Date   string   `json:"date"`
	Images []string `json:"images"`
}

type HomeContent struct {
	Headline   string   `json:"headline"`
	Tagline    string   `json:"tagline"`
	AboutText  string   `json:"aboutText"`
	Highlights []string `json:"highlights"`
}

// Theme maps named color roles (e.g. "Accent Red") to CSS color values.
type Theme map[string]string
