package model

// Credential is an operator login row. Passwords are stored and compared verbatim.
type Credential struct {
	UserID   string `json:"-" gorm:"column:usrID;size:50;not null;index"`
	Password string `json:"-" gorm:"column:usrPWD;size:50;not null"`
}

// TableName maps Credential onto the legacy table.
func (Credential) TableName() string {
	return "tblUsers"
}
