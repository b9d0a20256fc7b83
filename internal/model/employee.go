package model

// Employee is a roster row. PSC is assigned by the external store and never changes;
// only TagID and ProjectID are written by this service.
type Employee struct {
	PSC       string  `json:"empPSC" gorm:"column:empPSC;primaryKey;size:50"`
	TagID     *string `json:"empTagId" gorm:"column:empTagId;size:50"`
	ProjectID *int64  `json:"empProjID" gorm:"column:empProjID"`
}

// TableName maps Employee onto the legacy table.
func (Employee) TableName() string {
	return "tblEmployee"
}
