package model

const (
	NotebookFileUploaded = "uploaded"
	NotebookFileReady    = "ready"
	NotebookFileFailed   = "failed"
)

// NotebookFile 笔记本中的资料文件，作为 AI 出题的来源
type NotebookFile struct {
	BaseModel
	OwnerID         uint    `gorm:"index;not null" json:"ownerId"`
	NotebookID      uint    `gorm:"index" json:"notebookId"`
	OriginalName    string  `gorm:"size:255;not null" json:"originalName"`
	StorageKey      string  `gorm:"size:255;not null" json:"-"`
	URL             string  `gorm:"size:512" json:"url"`
	MimeType        string  `gorm:"size:100" json:"mimeType"`
	Size            int64   `json:"size"`
	ExtractedText   string  `gorm:"type:longtext" json:"-"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	Status          string  `gorm:"size:20;not null" json:"status"`
}

func (NotebookFile) TableName() string {
	return "notebook_files"
}

func (f *NotebookFile) HasText() bool {
	return f.ExtractedText != ""
}
