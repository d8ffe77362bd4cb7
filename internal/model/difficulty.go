package model

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
)

// Difficulty 难度档位，medium < expert < professor
type Difficulty int

const (
	DifficultyMedium Difficulty = iota + 1
	DifficultyExpert
	DifficultyProfessor
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

var (
	difficultyNames  = [...]string{DifficultyMedium: "medium", DifficultyExpert: "expert", DifficultyProfessor: "professor"}
	difficultyByName = map[string]Difficulty{
		"medium":    DifficultyMedium,
		"expert":    DifficultyExpert,
		"professor": DifficultyProfessor,
	}
	// 连续答对多少次才算通过当前档位
	requiredStreaks = [...]int{DifficultyMedium: 1, DifficultyExpert: 2, DifficultyProfessor: 3}
)

var (
	_ fmt.Stringer             = Difficulty(0)
	_ json.Marshaler           = Difficulty(0)
	_ json.Unmarshaler         = (*Difficulty)(nil)
	_ encoding.TextMarshaler   = Difficulty(0)
	_ encoding.TextUnmarshaler = (*Difficulty)(nil)
)

// Difficulties 按难度升序返回全部档位
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyMedium, DifficultyExpert, DifficultyProfessor}
}

func ParseDifficulty(s string) (Difficulty, error) {
	d, ok := difficultyByName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

func (d Difficulty) IsValid() bool {
	return d >= DifficultyMedium && d <= DifficultyProfessor
}

func (d Difficulty) String() string {
	if d.IsValid() {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Next 晋级到下一档，professor 为终点
func (d Difficulty) Next() Difficulty {
	switch d {
	case DifficultyMedium:
		return DifficultyExpert
	case DifficultyExpert, DifficultyProfessor:
		return DifficultyProfessor
	}
	return DifficultyMedium
}

// Prev 降一档，medium 为底
func (d Difficulty) Prev() Difficulty {
	switch d {
	case DifficultyProfessor:
		return DifficultyExpert
	}
	return DifficultyMedium
}

// RequiredStreak 通过该档位需要的连续答对次数
func (d Difficulty) RequiredStreak() int {
	if !d.IsValid() {
		return requiredStreaks[DifficultyMedium]
	}
	return requiredStreaks[d]
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}
	return []byte(difficultyNames[d]), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDifficulty, data)
	}
	return d.UnmarshalText([]byte(s))
}
