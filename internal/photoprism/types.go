package photoprism

// Album represents a PhotoPrism album
type Album struct {
	UID         string `json:"UID"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Favorite    bool   `json:"Favorite"`
	PhotoCount  int    `json:"PhotoCount"`
	Type        string `json:"Type"`
	CreatedAt   string `json:"CreatedAt"`
	UpdatedAt   string `json:"UpdatedAt"`
}

// Photo represents a PhotoPrism photo
type Photo struct {
	UID          string `json:"UID"`
	Title        string `json:"Title"`
	TakenAt      string `json:"TakenAt"`
	Type         string `json:"Type"`
	Hash         string `json:"Hash"`
	Width        int    `json:"Width"`
	Height       int    `json:"Height"`
	OriginalName string `json:"OriginalName"` // Original filename when uploaded
	FileName     string `json:"FileName"`     // Current filename
}
