package model

import "time"

// Prediction 比分预测（每用户每场一条，开球前可改，开球后锁定，只计分一次）
type Prediction struct {
	ID            uint64     `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID        uint64     `json:"user_id" gorm:"column:user_id;type:bigint;not null;uniqueIndex:uk_user_match;comment:用户ID"`
	MatchID       string     `json:"match_id" gorm:"column:match_id;type:varchar(60);not null;uniqueIndex:uk_user_match;index;comment:比赛ID"`
	Opponent      string     `json:"opponent" gorm:"column:opponent;type:varchar(120);not null;comment:对手名称"`
	ArsenalIsHome bool       `json:"arsenal_is_home" gorm:"column:arsenal_is_home;type:boolean;default:true;comment:阿森纳是否主场"`
	Kickoff       time.Time  `json:"kickoff" gorm:"column:kickoff;type:timestamp;not null;comment:开球时间"`
	PredictedHome int        `json:"predicted_home" gorm:"column:predicted_home;type:int;not null;comment:预测主队进球"`
	PredictedAway int        `json:"predicted_away" gorm:"column:predicted_away;type:int;not null;comment:预测客队进球"`
	Locked        bool       `json:"locked" gorm:"column:locked;type:boolean;default:false;comment:是否锁定"`
	CheckedAt     *time.Time `json:"checked_at" gorm:"column:checked_at;type:timestamp;comment:计分时间"`
	ActualHome    *int       `json:"actual_home" gorm:"column:actual_home;type:int;comment:实际主队进球"`
	ActualAway    *int       `json:"actual_away" gorm:"column:actual_away;type:int;comment:实际客队进球"`
	Points        int        `json:"points" gorm:"column:points;type:int;default:0;comment:得分：3/1/0"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// UserStats 用户聚合战绩（仅由计分器更新）
type UserStats struct {
	ID                 uint64    `json:"-" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID             uint64    `json:"user_id" gorm:"column:user_id;type:bigint;uniqueIndex;not null;comment:用户ID"`
	TotalPoints        int       `json:"total_points" gorm:"column:total_points;type:int;default:0;comment:累计得分"`
	Streak             int       `json:"streak" gorm:"column:streak;type:int;default:0;comment:连续得分场次"`
	Accuracy           float64   `json:"accuracy" gorm:"column:accuracy;type:numeric(5,2);default:0;comment:命中率（百分比，保留2位）"`
	TotalPredictions   int       `json:"total_predictions" gorm:"column:total_predictions;type:int;default:0;comment:已计分预测数"`
	CorrectPredictions int       `json:"correct_predictions" gorm:"column:correct_predictions;type:int;default:0;comment:得分>0的预测数"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Prediction) TableName() string { return "predictions" }
func (UserStats) TableName() string  { return "user_stats" }
