package resumes

import "time"

const DefaultTitle = "My Resume"

type PersonalInfo struct {
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=32"`
	Address string `json:"address" validate:"max=500"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
}

// Resume is the builder document. There is at most one per user.
type Resume struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Title        string       `json:"title"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []string     `json:"skills"`
	Projects     []Project    `json:"projects"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Input is the editable content of a resume.
type Input struct {
	Title        string       `json:"title" validate:"max=200"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience" validate:"max=50"`
	Education    []Education  `json:"education" validate:"max=50"`
	Skills       []string     `json:"skills" validate:"max=100"`
	Projects     []Project    `json:"projects" validate:"max=50"`
}

// normalize trims the title, drops blank skills and replaces nil sections with
// empty ones so they serialize as [].
func (in Input) normalize() Input {
	out := in
	out.Title = trim(in.Title)
	if out.Title == "" {
		out.Title = DefaultTitle
	}
	out.Skills = make([]string, 0, len(in.Skills))
	for _, s := range in.Skills {
		if s = trim(s); s != "" {
			out.Skills = append(out.Skills, s)
		}
	}
	if out.Experience == nil {
		out.Experience = []Experience{}
	}
	if out.Education == nil {
		out.Education = []Education{}
	}
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	return out
}
