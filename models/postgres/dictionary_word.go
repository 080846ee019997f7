package postgres

/*
 * 'DictionaryWord' is one entry of the pre-populated Korean dictionary.
 * The engine only ever reads this table; ingestion/ETL lives elsewhere.
 */
type DictionaryWord struct {
	Word           string `gorm:"primaryKey;size:50;not null"`
	Definition     string `gorm:"type:text"`
	Difficulty     int    `gorm:"default:1"` // 1..3
	FrequencyScore int    `gorm:"default:0;index:idx_dictionary_words_frequency"`
	FirstChar      string `gorm:"size:4;index:idx_dictionary_words_first_char"`
	LastChar       string `gorm:"size:4"`
	Length         int    `gorm:"default:0"` // in syllables
}
