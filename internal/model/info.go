package model

// Honor 俱乐部荣誉条目
type Honor struct {
	ID       uint64 `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Title    string `json:"title" gorm:"column:title;type:varchar(120);not null;comment:荣誉名称"`
	Count    string `json:"count" gorm:"column:count;type:varchar(40);not null;comment:次数/年份"`
	Subtitle string `json:"subtitle" gorm:"column:subtitle;type:varchar(120);comment:副标题"`
}

// TimelineItem 俱乐部历史时间线条目
type TimelineItem struct {
	ID          uint64 `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Title       string `json:"title" gorm:"column:title;type:varchar(120);not null;comment:标题"`
	Period      string `json:"period" gorm:"column:period;type:varchar(80);not null;comment:时期"`
	Description string `json:"description" gorm:"column:description;type:text;comment:描述"`
}

// InfoLink 外部资讯链接
type InfoLink struct {
	ID    uint64 `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Title string `json:"title" gorm:"column:title;type:varchar(160);not null;comment:标题"`
	URL   string `json:"url" gorm:"column:url;type:varchar(256);not null;comment:链接"`
}

func (Honor) TableName() string        { return "honors" }
func (TimelineItem) TableName() string { return "timeline_items" }
func (InfoLink) TableName() string     { return "info_links" }
