package model

// Project is read-only reference data used to label and filter employees.
type Project struct {
	Seq         int64  `json:"prjSeq" gorm:"column:prjSeq;primaryKey;autoIncrement"`
	Description string `json:"prjDesc" gorm:"column:prjDesc;size:255;not null"`
}

// TableName maps Project onto the legacy table.
func (Project) TableName() string {
	return "tblProjects"
}
