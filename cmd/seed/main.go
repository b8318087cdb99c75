package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"

	"ArsenalAura/internal/config"
	"ArsenalAura/internal/model"
	"ArsenalAura/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 预生成文案池目标容量
const preGeneratedTarget = 10000

var playerNames = []string{
	"Bukayo Saka", "Martin Odegaard", "Declan Rice", "William Saliba",
	"Gabriel Magalhaes", "Ben White", "Gabriel Martinelli", "Kai Havertz",
	"Leandro Trossard", "Jurrien Timber", "Thomas Partey", "Oleksandr Zinchenko",
	"Aaron Ramsdale", "David Raya", "Eddie Nketiah", "Reiss Nelson",
	"Emile Smith Rowe", "Fabio Vieira", "Jakub Kiwior", "Takehiro Tomiyasu",
	"Jorginho", "Mohamed Elneny", "Gabriel Jesus", "Kieran Tierney",
	"Myles Lewis-Skelly", "Ethan Nwaneri", "Thierry Henry", "Dennis Bergkamp",
	"Patrick Vieira", "Robert Pires", "Freddie Ljungberg", "Sol Campbell",
	"Tony Adams", "Ian Wright", "Ray Parlour", "Gilberto Silva",
	"Ashley Cole", "David Seaman", "Cesc Fabregas", "Robin van Persie",
	"Santi Cazorla", "Mesut Ozil", "Alexis Sanchez", "Jack Wilshere",
	"Theo Walcott", "Per Mertesacker", "Laurent Koscielny", "Gael Clichy",
	"Kolo Toure", "Lee Dixon", "Paul Merson", "Nigel Winterburn",
	"Martin Keown", "Nicolas Anelka", "Edu Gaspar",
}

var factPrefixes = []string{
	"Fact:", "Did you know?", "Arsenal note:", "Classic Arsenal:", "Gooner fact:",
	"History bite:", "Club note:", "North London fact:", "Red and white fact:",
	"Arsenal identity:",
}

var factBodies = []string{
	"Arsenal are based in North London.",
	"Arsenal are nicknamed The Gunners.",
	"Arsenal play home matches at Emirates Stadium.",
	"Arsenal were founded in 1886 in Woolwich.",
	"Arsenal moved to Highbury in the early 1900s.",
	"Arsenal have one of the richest histories in English football.",
	"Arsenal are known for their red and white colors.",
	"The club has a storied rivalry in the North London derby.",
	"Arsenal won the league unbeaten in 2003/04.",
	"The club has lifted the FA Cup on many occasions.",
	"Highbury was Arsenal's home for most of the 20th century.",
	"Arsenal moved to the Emirates Stadium in 2006.",
	"The club is famous for stylish, possession-based play.",
	"Arsenal have fielded many legendary strikers.",
	"Arsenal have produced elite academy talent.",
	"The club crest features a cannon.",
	"Arsenal have won English league titles.",
	"The Invincibles season remains iconic in football history.",
	"Arsenal have featured in European competitions for decades.",
	"Arsenal are a cornerstone of London football culture.",
	"The club has worn red shirts for over a century.",
	"Arsenal have been led by iconic managers.",
	"The club has a global fanbase.",
	"Arsenal's home is in the borough of Islington.",
	"The Arsenal motto is rooted in tradition and pride.",
}

var openers = []string{
	"No debate:", "Pure class:", "Every week:", "Straight from the stands:",
	"From the first whistle:", "Stadium-level energy:", "North London truth:",
	"Gooner eyes see it:", "This is the standard:", "Locked in:",
	"Aura check:", "Cannon-level vibes:", "Top flight glow:", "Elite heartbeat:",
	"Matchday energy:", "Red pulse:", "Calm authority:", "Football art:",
	"Arsenal rhythm:", "Pure control:",
}

var praiseAdjectives = []string{
	"silky", "electric", "calm", "sharp", "ruthless", "precise", "clinical",
	"smooth", "fearless", "composed", "elegant", "explosive", "relentless",
	"clever", "creative", "dominant", "brave", "fast", "confident", "ice-cold",
	"fluid", "measured", "balanced", "disciplined", "brilliant", "classy",
	"elite", "smart", "decisive", "inventive", "direct", "patient", "agile",
	"powerful", "elevated", "refined", "focused", "steady", "unshakeable",
	"authoritative", "daring", "unstoppable", "special", "timeless", "gliding",
	"surgical", "poised",
}

var praiseNouns = []string{
	"touch", "passing", "vision", "movement", "first step", "finish",
	"decision-making", "control", "dribble", "press", "tempo", "instincts",
	"timing", "reading of the game", "duel strength", "leadership", "balance",
	"positioning", "composure", "engine", "work rate", "flair", "gravity",
	"presence", "intelligence", "swagger", "link-up", "shift", "pace", "drive",
	"calmness", "awareness", "angle", "technique", "accuracy", "flow",
	"authority", "edge", "spark", "craft",
}

var tacticalVerbs = []string{
	"sets", "controls", "dictates", "pushes", "threads", "opens", "closes",
	"squeezes", "breaks", "anchors", "leads", "drives", "organizes", "balances",
	"accelerates", "slows", "transforms", "tilts", "switches", "stitches",
}

var tacticalNouns = []string{
	"the tempo", "the press", "the build-up", "the midfield", "the half-space",
	"the counter", "the rhythm", "the shape", "the back line", "the transition",
	"the passing lanes", "the final third", "the wide overload", "the triangles",
	"the patterns", "the blocks", "the triggers", "the rest defense",
	"the press resistance", "the second ball",
}

var nostalgiaFragments = []string{
	"It feels like Highbury echoing again.",
	"That is classic Arsenal elegance.",
	"Invincibles-level composure in the bloodstream.",
	"Pure Wengerball memories in motion.",
	"North London heritage written in every touch.",
	"A nod to the old Arsenal soul.",
	"You can feel the club history in the way it flows.",
	"Emirates nights with a Highbury heart.",
	"The cannon on the crest is alive.",
	"Gooner nostalgia hits hard with that style.",
	"Legacy stuff. It breathes Arsenal.",
	"You can see the heritage in the movement.",
	"That is a Highbury-era kind of grace.",
	"Pure Arsenal identity from first touch to last.",
	"Invincibles energy without the noise.",
	"That is the Arsenal code.",
	"It is the North London signature.",
	"History and swagger in one.",
	"A throwback to the golden eras.",
	"The tradition is loud in this performance.",
}

var closers = []string{
	"Keep it rolling.", "The aura is real.", "North London is smiling.",
	"That is Arsenal DNA.", "Straight class, no debate.", "Elite levels only.",
	"That is the standard.", "Keep the cannon firing.", "We move.",
	"Gooner joy secured.", "Stay locked in.", "Sharp and ruthless.",
	"That is pure Arsenal.", "The vibe is perfect.",
	"The shirt is heavy with history.", "This is why we watch.",
	"Make it a legacy performance.", "Emirates crowd approves.",
	"Stay on that level.", "Top shelf only.",
}

var baseKeywords = map[string]string{
	"invincibles":        "The Invincibles went unbeaten in the 2003/04 league season.",
	"wenger":             "Arsene Wenger changed English football with style and belief.",
	"highbury":           "Highbury was Arsenal's historic home with pure character.",
	"emirates":           "The Emirates Stadium has been Arsenal's home since 2006.",
	"arteta":             "Mikel Arteta has restored structure and belief.",
	"saka":               "Saka is pure Hale End quality and heart.",
	"odegaard":           "Odegaard sets the tempo with class.",
	"saliba":             "Saliba is calm, strong, and elite.",
	"rice":               "Declan Rice brings control and drive.",
	"henry":              "Thierry Henry is Arsenal royalty.",
	"bergkamp":           "Bergkamp made football look like art.",
	"fa cup":             "Arsenal have a deep love affair with the FA Cup.",
	"premier league":     "Arsenal are a historic force in the Premier League.",
	"north london derby": "The North London derby is pure intensity.",
	"cannon":             "The cannon crest is Arsenal identity in one symbol.",
	"high press":         "Arsenal's press is bold and coordinated.",
	"hale end":           "Hale End produces special talent.",
	"wengerball":         "Wengerball is beauty in motion.",
	"invincible":         "Unbeaten. Immortal. Arsenal.",
	"gooner":             "Gooners live for moments like this.",
	"arteta era":         "The Arteta era is about control and standards.",
	"emirates nights":    "Emirates nights can be electric.",
	"legend":             "Arsenal legends built the culture.",
	"classic":            "Classic Arsenal style never fades.",
}

func main() {
	reset := flag.Bool("reset", false, "先清空内容表再重新灌入")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("连接PostgreSQL失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.UserStats{},
		&model.Player{}, &model.Fact{}, &model.Fragment{},
		&model.PreGeneratedLine{}, &model.GeneratorHistory{},
		&model.FixturesCache{}, &model.Prediction{},
		&model.KeywordResponse{}, &model.ChatMessage{},
		&model.Honor{}, &model.TimelineItem{}, &model.InfoLink{},
	); err != nil {
		logger.Fatalf("数据库表结构迁移失败: %v", err)
	}

	if *reset {
		logger.Info("清空内容表…")
		for _, m := range []interface{}{
			&model.PreGeneratedLine{}, &model.Fragment{}, &model.Fact{},
			&model.Player{}, &model.KeywordResponse{},
			&model.Honor{}, &model.TimelineItem{}, &model.InfoLink{},
		} {
			if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				logger.Fatalf("清空内容表失败: %v", err)
			}
		}
	}

	// 已注册用户补齐战绩行
	var users []model.User
	if err := db.Find(&users).Error; err != nil {
		logger.Fatalf("读取用户失败: %v", err)
	}
	for _, u := range users {
		stats := model.UserStats{UserID: u.ID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&stats).Error; err != nil {
			logger.Fatalf("补齐用户战绩失败: %v", err)
		}
	}

	seedPlayers(db, logger)
	seedFacts(db, logger)
	seedFragments(db, logger)
	seedPreGeneratedLines(db, logger)
	seedKeywords(db, logger)
	seedInfo(db, logger)

	logger.Info("Seed complete")
}

func seedPlayers(db *gorm.DB, logger *logrus.Logger) {
	players := make([]model.Player, 0, len(playerNames))
	for _, name := range playerNames {
		players = append(players, model.Player{Name: name})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&players).Error; err != nil {
		logger.Fatalf("写入球员失败: %v", err)
	}
	logger.Infof("球员就绪: %d", len(players))
}

func seedFacts(db *gorm.DB, logger *logrus.Logger) {
	facts := make([]model.Fact, 0, len(factPrefixes)*len(factBodies))
	for _, prefix := range factPrefixes {
		for _, body := range factBodies {
			facts = append(facts, model.Fact{Text: fmt.Sprintf("%s %s", prefix, body)})
		}
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "text"}},
		DoNothing: true,
	}).CreateInBatches(&facts, 200).Error; err != nil {
		logger.Fatalf("写入事实失败: %v", err)
	}
	logger.Infof("事实就绪: %d", len(facts))
}

func seedFragments(db *gorm.DB, logger *logrus.Logger) {
	type batch struct {
		category string
		weight   int
		texts    []string
	}

	praise := make([]string, 0, len(praiseAdjectives)*len(praiseNouns)*2)
	for _, adj := range praiseAdjectives {
		for _, noun := range praiseNouns {
			praise = append(praise, fmt.Sprintf("is %s with their %s", adj, noun))
			praise = append(praise, fmt.Sprintf("brings %s %s every time", adj, noun))
		}
	}
	tactical := make([]string, 0, len(tacticalVerbs)*len(tacticalNouns))
	for _, verb := range tacticalVerbs {
		for _, noun := range tacticalNouns {
			tactical = append(tactical, fmt.Sprintf("%s %s with total confidence.", verb, noun))
		}
	}

	batches := []batch{
		{model.FragmentOpener, 2, openers},
		{model.FragmentPraise, 1, praise},
		{model.FragmentTactical, 1, tactical},
		{model.FragmentNostalgia, 2, nostalgiaFragments},
		{model.FragmentCloser, 2, closers},
	}
	total := 0
	for _, b := range batches {
		for _, text := range b.texts {
			fragment := model.Fragment{Category: b.category, Text: text, Weight: b.weight}
			if err := db.Where("category = ? AND text = ?", b.category, text).
				FirstOrCreate(&fragment).Error; err != nil {
				logger.Fatalf("写入片段[%s]失败: %v", b.category, err)
			}
			total++
		}
	}
	// emoji分类彻底停用，清掉历史残留
	if err := db.Where("category = ?", model.FragmentEmoji).Delete(&model.Fragment{}).Error; err != nil {
		logger.Fatalf("清理emoji片段失败: %v", err)
	}
	logger.Infof("片段就绪: %d", total)
}

func seedPreGeneratedLines(db *gorm.DB, logger *logrus.Logger) {
	var count int64
	if err := db.Model(&model.PreGeneratedLine{}).Count(&count).Error; err != nil {
		logger.Fatalf("统计预生成文案失败: %v", err)
	}
	if count >= preGeneratedTarget {
		logger.Infof("预生成文案已达标: %d", count)
		return
	}

	pick := func(rng *rand.Rand, category string) string {
		var texts []string
		if err := db.Model(&model.Fragment{}).Where("category = ?", category).
			Pluck("text", &texts).Error; err != nil || len(texts) == 0 {
			return ""
		}
		return texts[rng.Intn(len(texts))]
	}

	var players []model.Player
	if err := db.Find(&players).Error; err != nil {
		logger.Fatalf("读取球员失败: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	intensities := []string{model.IntensityLow, model.IntensityMedium, model.IntensityHigh}
	need := preGeneratedTarget - int(count)
	lines := make([]model.PreGeneratedLine, 0, need)
	for i := 0; i < need; i++ {
		intensity := intensities[rng.Intn(len(intensities))]
		name := "Arsenal"
		var playerID *uint64
		if len(players) > 0 {
			p := players[rng.Intn(len(players))]
			name = p.Name
			id := p.ID
			playerID = &id
		}
		opener := pick(rng, model.FragmentOpener)
		praise := pick(rng, model.FragmentPraise)
		tactical := pick(rng, model.FragmentTactical)
		nostalgia := pick(rng, model.FragmentNostalgia)
		closer := pick(rng, model.FragmentCloser)

		var text string
		switch intensity {
		case model.IntensityLow:
			text = fmt.Sprintf("%s %s %s. %s", opener, name, praise, closer)
		case model.IntensityMedium:
			text = fmt.Sprintf("%s %s %s. %s %s", opener, name, praise, tactical, closer)
		default:
			text = fmt.Sprintf("%s %s %s. %s %s %s", opener, name, praise, tactical, nostalgia, closer)
		}
		lines = append(lines, model.PreGeneratedLine{
			Text:      service.CleanText(text),
			Intensity: intensity,
			PlayerID:  playerID,
		})
	}
	if err := db.CreateInBatches(&lines, 500).Error; err != nil {
		logger.Fatalf("写入预生成文案失败: %v", err)
	}
	logger.Infof("预生成文案补足: +%d", len(lines))
}

func lastWordLower(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[len(words)-1])
}

func seedKeywords(db *gorm.DB, logger *logrus.Logger) {
	keywords := make(map[string]string, len(baseKeywords)+2*len(playerNames))
	for k, v := range baseKeywords {
		keywords[k] = v
	}
	var players []model.Player
	if err := db.Find(&players).Error; err != nil {
		logger.Fatalf("读取球员失败: %v", err)
	}
	for _, p := range players {
		full := strings.ToLower(p.Name)
		if _, ok := keywords[full]; !ok {
			keywords[full] = fmt.Sprintf("%s brings Arsenal quality every time.", p.Name)
		}
		last := lastWordLower(p.Name)
		if _, ok := keywords[last]; !ok {
			keywords[last] = fmt.Sprintf("%s is pure class in red and white.", p.Name)
		}
	}

	for key, response := range keywords {
		item := model.KeywordResponse{Keyword: key, Response: response}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "keyword"}},
			DoNothing: true,
		}).Create(&item).Error; err != nil {
			logger.Fatalf("写入关键词失败: %v", err)
		}
	}
	logger.Infof("关键词就绪: %d", len(keywords))
}

func seedInfo(db *gorm.DB, logger *logrus.Logger) {
	var honorCount int64
	db.Model(&model.Honor{}).Count(&honorCount)
	if honorCount == 0 {
		honors := []model.Honor{
			{Title: "League Titles", Count: "13x", Subtitle: "Top-flight Champions"},
			{Title: "FA Cup Trophies", Count: "14x", Subtitle: "Record Winners"},
			{Title: "The Invincibles", Count: "2003/04", Subtitle: "Unbeaten League Season"},
		}
		if err := db.Create(&honors).Error; err != nil {
			logger.Fatalf("写入荣誉失败: %v", err)
		}
	}

	var timelineCount int64
	db.Model(&model.TimelineItem{}).Count(&timelineCount)
	if timelineCount == 0 {
		items := []model.TimelineItem{
			{Title: "Woolwich Origins", Period: "1886", Description: "Founded in Woolwich and built from humble roots."},
			{Title: "Highbury Era", Period: "1913–2006", Description: "A historic home that shaped the club's identity."},
			{Title: "Emirates Stadium", Period: "2006–Present", Description: "Modern home with elite ambitions."},
			{Title: "Wenger Era", Period: "1996–2018", Description: "Style, trophies, and a global football legacy."},
			{Title: "Arteta Era", Period: "2019–Present", Description: "Control, youth, and a new Arsenal standard."},
		}
		if err := db.Create(&items).Error; err != nil {
			logger.Fatalf("写入时间线失败: %v", err)
		}
	}

	var linkCount int64
	db.Model(&model.InfoLink{}).Count(&linkCount)
	if linkCount == 0 {
		links := []model.InfoLink{
			{Title: "Arsenal Official Website", URL: "https://www.arsenal.com/"},
			{Title: "Arsenal on BBC Sport", URL: "https://www.bbc.com/sport/football/teams/arsenal"},
			{Title: "Arsenal on Sky Sports", URL: "https://www.skysports.com/arsenal"},
			{Title: "Arsenal Fixtures and Results", URL: "https://www.premierleague.com/clubs/1/Arsenal/fixtures"},
		}
		if err := db.Create(&links).Error; err != nil {
			logger.Fatalf("写入链接失败: %v", err)
		}
	}
	logger.Info("资讯内容就绪")
}
