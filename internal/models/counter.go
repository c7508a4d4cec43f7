package models

// Counter backs a named ID sequence ("post", "file"). Rows are created
// lazily on first allocation and never deleted.
type Counter struct {
	Name  string `gorm:"primaryKey;size:50" json:"name"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

func (Counter) TableName() string {
	return "counters"
}
