// Package leitner 三桶 Leitner 复习调度：A 为新卡/答错，B 答对一次，C 答对两次以上。
package leitner

import "errors"

type Bucket string

const (
	BucketA Bucket = "A"
	BucketB Bucket = "B"
	BucketC Bucket = "C"
)

var ErrEmpty = errors.New("leitner: no cards to review")

// Session 保存卡片下标而不是卡片内容，卡组内容变化时需要 Reset
type Session struct {
	A       []int  `json:"bucketA"`
	B       []int  `json:"bucketB"`
	C       []int  `json:"bucketC"`
	Counter int    `json:"counter"`
	Current Bucket `json:"currentBucket"`
}

// NewSession 所有卡片放入 A，计数器从 1 开始
func NewSession(cardCount int) *Session {
	s := &Session{}
	s.Reset(cardCount)
	return s
}

func (s *Session) Reset(cardCount int) {
	s.A = make([]int, cardCount)
	for i := range s.A {
		s.A[i] = i
	}
	s.B = []int{}
	s.C = []int{}
	s.Counter = 1
	s.Current = BucketA
}

// Total 三个桶中的卡片总数
func (s *Session) Total() int {
	return len(s.A) + len(s.B) + len(s.C)
}

// Next 选出下一张卡片。每 bigInterval 次从 C 取，每 smallInterval 次从 B 取，
// 其余时候按 A、B、C 的顺序取第一个非空桶的队首。
func (s *Session) Next() (int, error) {
	n := s.Total()
	if n == 0 {
		return 0, ErrEmpty
	}
	if s.Counter < 1 {
		s.Counter = 1
	}

	big := ceilDiv(n, 3) + 1
	small := ceilDiv(n, 6) + 1

	switch {
	case s.Counter%big == 0 && len(s.C) > 0:
		s.Current = BucketC
	case s.Counter%small == 0 && len(s.B) > 0:
		s.Current = BucketB
	case len(s.A) > 0:
		s.Current = BucketA
	case len(s.B) > 0:
		s.Current = BucketB
	default:
		s.Current = BucketC
	}

	if s.Counter >= n {
		s.Counter = 1
	} else {
		s.Counter++
	}
	return (*s.bucket(s.Current))[0], nil
}

// Correct 当前桶队首升一级，C 中的卡片移到 C 队尾
func (s *Session) Correct() {
	switch s.Current {
	case BucketA:
		s.move(BucketA, BucketB)
	case BucketB:
		s.move(BucketB, BucketC)
	case BucketC:
		s.move(BucketC, BucketC)
	}
}

// Wrong 当前桶队首退回 A 队尾
func (s *Session) Wrong() {
	if s.bucket(s.Current) == nil {
		return
	}
	s.move(s.Current, BucketA)
}

func (s *Session) move(from, to Bucket) {
	src, dst := s.bucket(from), s.bucket(to)
	if src == nil || dst == nil || len(*src) == 0 {
		return
	}
	card := (*src)[0]
	*src = (*src)[1:]
	*dst = append(*dst, card)
}

func (s *Session) bucket(b Bucket) *[]int {
	switch b {
	case BucketA:
		return &s.A
	case BucketB:
		return &s.B
	case BucketC:
		return &s.C
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
