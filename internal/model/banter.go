package model

import "time"

// 文本生成相关枚举
const (
	FragmentOpener    = "opener"
	FragmentPraise    = "praise"
	FragmentTactical  = "tactical"
	FragmentNostalgia = "nostalgia"
	FragmentCloser    = "closer"
	FragmentEmoji     = "emoji"

	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"

	ModeFact      = "fact"
	ModePraise    = "praise"
	ModeNostalgia = "nostalgia"
)

// Player 球员（生成内容弱引用，删除球员不级联删除内容）
type Player struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name     string `gorm:"column:name;type:varchar(120);uniqueIndex;not null;comment:球员姓名"`
	Position string `gorm:"column:position;type:varchar(60);comment:场上位置"`
	ImageURL string `gorm:"column:image_url;type:varchar(256);comment:头像地址"`
}

// Fact 随机事实文本
type Fact struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Text string `gorm:"column:text;type:text;uniqueIndex;not null;comment:事实文本"`
}

// Fragment 带权重的分类文本片段（种子数据，选取概率正比于weight）
type Fragment struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Category string `gorm:"column:category;type:varchar(32);index;not null;comment:片段分类：opener/praise/tactical/nostalgia/closer/emoji"`
	Text     string `gorm:"column:text;type:text;not null;comment:片段文本"`
	Weight   int    `gorm:"column:weight;type:int;default:1;comment:选取权重（>=1）"`
}

// PreGeneratedLine 预生成文案池（praise模式优先抽取）
type PreGeneratedLine struct {
	ID        uint64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Text      string  `gorm:"column:text;type:text;not null;comment:文案"`
	Intensity string  `gorm:"column:intensity;type:varchar(16);index;not null;comment:强度：low/medium/high"`
	PlayerID  *uint64 `gorm:"column:player_id;type:bigint;comment:关联球员ID（弱引用，可空）"`
	Player    *Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:SET NULL"`
}

// GeneratorHistory 生成历史（追加写，近20条作为防重复窗口）
type GeneratorHistory struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID     uint64    `gorm:"column:user_id;type:bigint;index;not null;comment:用户ID"`
	OutputText string    `gorm:"column:output_text;type:text;not null;comment:生成文本"`
	Mode       string    `gorm:"column:mode;type:varchar(32);not null;comment:生成模式"`
	PlayerID   *uint64   `gorm:"column:player_id;type:bigint;comment:关联球员ID（弱引用，可空）"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

func (Player) TableName() string           { return "players" }
func (Fact) TableName() string             { return "facts" }
func (Fragment) TableName() string         { return "fragments" }
func (PreGeneratedLine) TableName() string { return "pre_generated_lines" }
func (GeneratorHistory) TableName() string { return "generator_history" }
