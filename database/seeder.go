package database

import (
	"fmt"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/mapper"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GrammarSeedData - starter catalog, TOPIK 1 to 5
var GrammarSeedData = []entity.GrammarRecord{
	// ==================== BEGINNER ====================
	{
		ID: "beg-1", Korean: "N이/가 있다", English: "There is / To have", Vietnamese: "có",
		Structure: "Noun + 이/가 있다",
		Usage:     "Used to say that something exists or that someone has something",
		Examples: []entity.GrammarExample{
			{Korean: "저는 동생이 있어요.", English: "I have a younger sibling.", Vietnamese: "Tôi có em.", Romanization: "jeoneun dongsaengi isseoyo."},
		},
		Level: entity.LevelBeginner, TopikLevel: 1, Category: "expression", Difficulty: 1,
		Tags: []string{"existence", "possession"},
	},
	{
		ID: "beg-2", Korean: "V고 싶다", English: "To want to", Vietnamese: "muốn",
		Structure: "Verb stem + 고 싶다",
		Usage:     "Used to express the speaker's wish or desire",
		Examples: []entity.GrammarExample{
			{Korean: "한국에 가고 싶어요.", English: "I want to go to Korea.", Vietnamese: "Tôi muốn đi Hàn Quốc.", Romanization: "hanguge gago sipeoyo."},
		},
		Level: entity.LevelBeginner, TopikLevel: 1, Category: "expression", Difficulty: 1,
		Tags: []string{"desire", "wish"},
	},
	{
		ID: "beg-3", Korean: "V(으)ㄹ 수 있다", English: "Can / To be able to", Vietnamese: "có thể",
		Structure: "Verb stem + (으)ㄹ 수 있다",
		Usage:     "Used to express ability or possibility",
		Examples: []entity.GrammarExample{
			{Korean: "저는 한국어를 읽을 수 있어요.", English: "I can read Korean.", Vietnamese: "Tôi có thể đọc tiếng Hàn.", Romanization: "jeoneun hangugeoreul ilgeul su isseoyo."},
		},
		Level: entity.LevelBeginner, TopikLevel: 2, Category: "expression", Difficulty: 2,
		Tags: []string{"ability", "possibility"},
	},
	// ==================== INTERMEDIATE ====================
	{
		ID: "int-1", Korean: "N 밖에 + 부정", English: "Only / Nothing but", Vietnamese: "chỉ…",
		Structure: "Noun + 밖에 + negative verb",
		Usage:     "Used to express \"only\" or \"nothing but\" with negative verbs",
		Examples: []entity.GrammarExample{
			{Korean: "오빠밖에 사랑하지 않아요.", English: "I only love my older brother.", Vietnamese: "Tôi chỉ yêu anh trai thôi.", Romanization: "Oppabakke saranghaji anayo."},
			{Korean: "물밖에 마시지 않아요.", English: "I only drink water.", Vietnamese: "Tôi chỉ uống nước thôi.", Romanization: "Mulbakke masiji anayo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "particle", Difficulty: 3,
		Tags: []string{"restriction", "limitation", "negative"},
	},
	{
		ID: "int-2", Korean: "N(이)라고 하다", English: "To be called / To say that", Vietnamese: "được gọi là…",
		Structure: "Noun + (이)라고 하다",
		Usage:     "Used to say what something is called or to quote what someone said",
		Examples: []entity.GrammarExample{
			{Korean: "이 음식을 김치라고 해요.", English: "This food is called kimchi.", Vietnamese: "Món ăn này được gọi là kimchi.", Romanization: "I eumsigeul gimchirago haeyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "expression", Difficulty: 2,
		Tags: []string{"naming", "quotation", "indirect-speech"},
	},
	{
		ID: "int-3", Korean: "V게 되다", English: "To come to / To end up", Vietnamese: "bị, được, trở nên",
		Structure: "Verb stem + 게 되다",
		Usage:     "Used to express a change in situation or state that happened naturally",
		Examples: []entity.GrammarExample{
			{Korean: "한국어를 잘하게 되었어요.", English: "I came to speak Korean well.", Vietnamese: "Tôi đã trở nên giỏi tiếng Hàn.", Romanization: "Hangugeoreul jalhage doeeosseoyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "verb", Difficulty: 3,
		Tags: []string{"change", "result", "natural-progression"},
	},
	{
		ID: "int-4", Korean: "V(으)ㄹ 생각이다", English: "To plan to / To intend to", Vietnamese: "dự định sẽ làm gì",
		Structure: "Verb stem + (으)ㄹ 생각이다",
		Usage:     "Used to express plans or intentions",
		Examples: []entity.GrammarExample{
			{Korean: "내년에 결혼할 생각이에요.", English: "I plan to get married next year.", Vietnamese: "Tôi dự định kết hôn vào năm sau.", Romanization: "Naenyeone gyeolhonhal saenggagieyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "expression", Difficulty: 2,
		Tags: []string{"intention", "planning", "future"},
	},
	{
		ID: "int-6", Korean: "V(으)ㄴ/N 덕분에", English: "Thanks to...", Vietnamese: "nhờ có, nhờ vào",
		Structure: "Verb/Noun + 덕분에",
		Usage:     "Expresses gratitude or positive reason for a result.",
		Examples: []entity.GrammarExample{
			{Korean: "선생님 덕분에 한국어 실력이 좋아졌어요.", English: "Thanks to you, teacher, my Korean has improved.", Vietnamese: "Nhờ có cô giáo mà trình độ tiếng Hàn của em đã tốt hơn.", Romanization: "seonsaengnim deokbune hangugeo sillyeogi johajyeosseoyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "expression", Difficulty: 2,
		Tags: []string{"gratitude", "reason", "positive"},
	},
	{
		ID: "int-8", Korean: "V는 게 좋다", English: "It is better to...", Vietnamese: "nên làm gì",
		Structure: "Verb + 는 게 좋다",
		Usage:     "Used to give advice or make a recommendation.",
		Examples: []entity.GrammarExample{
			{Korean: "일찍 자는 게 좋겠어요.", English: "It would be better to sleep early.", Vietnamese: "Bạn nên ngủ sớm thì tốt hơn.", Romanization: "iljjik janeun ge johgesseoyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "expression", Difficulty: 2,
		Tags: []string{"advice", "recommendation", "suggestion"},
	},
	{
		ID: "int-9", Korean: "A아/어 보이다", English: "To look / seem / appear", Vietnamese: "trông có vẻ",
		Structure: "Adjective stem + 아/어 보이다",
		Usage:     "Used to express an impression or appearance based on observation.",
		Examples: []entity.GrammarExample{
			{Korean: "이 음식은 맛있어 보여요.", English: "This food looks delicious.", Vietnamese: "Món ăn này trông có vẻ ngon.", Romanization: "i eumsigeun masisseo boyeoyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "adjective", Difficulty: 3,
		Tags: []string{"appearance", "impression", "seems"},
	},
	{
		ID: "int-11", Korean: "대신(에)", English: "Instead of / In place of", Vietnamese: "thay vì, thay cho",
		Structure: "Noun + 대신(에) / Verb + 는 대신(에)",
		Usage:     "Indicates that one thing is replaced by another.",
		Examples: []entity.GrammarExample{
			{Korean: "커피 대신 차를 주세요.", English: "Please give me tea instead of coffee.", Vietnamese: "Cho tôi trà thay cho cà phê.", Romanization: "keopi daesin chareul juseyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "expression", Difficulty: 2,
		Tags: []string{"replacement", "alternative"},
	},
	{
		ID: "int-13", Korean: "V고 나서", English: "After doing...", Vietnamese: "sau khi",
		Structure: "Verb stem + 고 나서",
		Usage:     "Indicates the completion of one action before starting another.",
		Examples: []entity.GrammarExample{
			{Korean: "숙제를 하고 나서 놀 거예요.", English: "I will play after doing my homework.", Vietnamese: "Tôi sẽ đi chơi sau khi làm bài tập xong.", Romanization: "sukjereul hago naseo nol geoyeyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "ending", Difficulty: 2,
		Tags: []string{"sequence", "after", "completion"},
	},
	{
		ID: "int-50", Korean: "V느라고", English: "Because of doing... / While doing...", Vietnamese: "vì mải mê làm gì nên",
		Structure: "Verb stem + 느라고",
		Usage:     "Expresses a reason, often for a negative outcome, where the subject was occupied with the first action.",
		Examples: []entity.GrammarExample{
			{Korean: "영화를 보느라고 전화를 못 받았어요.", English: "I couldn't answer the phone because I was watching a movie.", Vietnamese: "Vì mải xem phim nên tôi không thể nghe điện thoại.", Romanization: "yeonghwareul boneurago jeonhwareul mot badasseoyo."},
		},
		Level: entity.LevelIntermediate, TopikLevel: 3, Category: "expression", Difficulty: 3,
		Tags: []string{"reason", "because", "occupied"},
	},
	// ==================== ADVANCED ====================
	{
		ID: "adv-1", Korean: "V(으)ㄹ 뿐만 아니라", English: "Not only... but also", Vietnamese: "không những… mà còn",
		Structure: "Verb/Adjective stem + (으)ㄹ 뿐만 아니라",
		Usage:     "Used to add a further fact on top of the first one",
		Examples: []entity.GrammarExample{
			{Korean: "그 식당은 맛있을 뿐만 아니라 값도 싸요.", English: "That restaurant is not only tasty but also cheap.", Vietnamese: "Nhà hàng đó không những ngon mà còn rẻ.", Romanization: "geu sikdangeun masisseul ppunman anira gapdo ssayo."},
		},
		Level: entity.LevelAdvanced, TopikLevel: 4, Category: "connective", Difficulty: 4,
		Tags: []string{"addition", "emphasis"},
	},
	{
		ID: "adv-2", Korean: "V는 바람에", English: "Because of (an unexpected event)", Vietnamese: "vì… nên (kết quả tiêu cực)",
		Structure: "Verb stem + 는 바람에",
		Usage:     "Used when an unexpected cause leads to a negative result",
		Examples: []entity.GrammarExample{
			{Korean: "늦잠을 자는 바람에 지각했어요.", English: "I was late because I overslept.", Vietnamese: "Vì ngủ quên nên tôi đã đến muộn.", Romanization: "neutjameul janeun barame jigakhaesseoyo."},
		},
		Level: entity.LevelAdvanced, TopikLevel: 4, Category: "connective", Difficulty: 4,
		Tags: []string{"reason", "unexpected", "negative-result"},
	},
	{
		ID: "adv-3", Korean: "V(으)ㄴ 나머지", English: "As a result of (excessive)", Vietnamese: "vì quá… nên",
		Structure: "Verb/Adjective stem + (으)ㄴ 나머지",
		Usage:     "Used when an excessive degree of the first clause leads to the result",
		Examples: []entity.GrammarExample{
			{Korean: "너무 긴장한 나머지 실수를 했어요.", English: "I was so nervous that I made a mistake.", Vietnamese: "Vì quá căng thẳng nên tôi đã mắc lỗi.", Romanization: "neomu ginjanghan nameoji silsureul haesseoyo."},
		},
		Level: entity.LevelAdvanced, TopikLevel: 5, Category: "connective", Difficulty: 5,
		Tags: []string{"excess", "result"},
	},
}

// SeedGrammar inserts the starter catalog when the grammar table is empty.
func SeedGrammar(db *gorm.DB, log *logrus.Logger) error {
	repo := repository.NewGrammarRepository(db)

	count, err := repo.Count(nil)
	if err != nil {
		return fmt.Errorf("failed to count grammar: %w", err)
	}
	if count > 0 {
		log.Info("Grammar catalog already seeded, skipping...")
		return nil
	}

	log.Info("Seeding grammar catalog...")

	for _, record := range GrammarSeedData {
		row, err := mapper.ConvertToGrammarEntity(record)
		if err != nil {
			return fmt.Errorf("failed to convert grammar %s: %w", record.ID, err)
		}

		if err := repo.Create(nil, &row); err != nil {
			return fmt.Errorf("failed to seed grammar %s: %w", record.ID, err)
		}
	}

	log.Infof("Successfully seeded %d grammar records", len(GrammarSeedData))
	return nil
}
