package entities

// User is a registered person. PasswordHash holds the bcrypt output and is
// stored in the "password" column; the plaintext is never kept.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(255)" json:"name"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	Address      string `gorm:"type:text" json:"address"`
	PhoneNumber  string `gorm:"column:phonenumber;type:varchar(255)" json:"phonenumber"`
	PasswordHash string `gorm:"column:password;type:varchar(255)" json:"-"`
}

func (User) TableName() string { return "users" }
