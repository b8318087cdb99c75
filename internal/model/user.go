package model

import "time"

// FavoriteClubs 可选主队列表（注册时校验）
var FavoriteClubs = []string{
	"Arsenal",
	"Aston Villa",
	"AFC Bournemouth",
	"Brentford",
	"Brighton & Hove Albion",
	"Burnley",
	"Chelsea",
	"Crystal Palace",
	"Everton",
	"Fulham",
	"Leeds United",
	"Liverpool",
	"Manchester City",
	"Manchester United",
	"Newcastle United",
	"Nottingham Forest",
	"Sunderland",
	"Tottenham Hotspur",
	"West Ham United",
	"Wolverhampton Wanderers",
}

// BanterClubs 进入banter模式并被Banter Gate拒绝的主队
var BanterClubs = []string{"Tottenham Hotspur", "Chelsea"}

// IsBanterClub 判断主队是否触发banter模式
func IsBanterClub(club string) bool {
	for _, c := range BanterClubs {
		if c == club {
			return true
		}
	}
	return false
}

// IsValidClub 判断主队是否在可选列表内
func IsValidClub(club string) bool {
	for _, c := range FavoriteClubs {
		if c == club {
			return true
		}
	}
	return false
}

// User 用户（邮箱登录，主队决定Banter Gate）
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Email        string    `gorm:"column:email;type:varchar(254);uniqueIndex;not null;comment:登录邮箱（小写）"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(128);not null;comment:bcrypt密码哈希"`
	FavoriteClub string    `gorm:"column:favorite_club;type:varchar(64);not null;comment:主队"`
	BanterMode   bool      `gorm:"column:banter_mode;type:boolean;default:false;comment:是否banter模式"`
	IsAdmin      bool      `gorm:"column:is_admin;type:boolean;default:false;comment:是否管理员"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (User) TableName() string { return "users" }
