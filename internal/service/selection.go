package service

import (
	"math/rand"
	"sort"
	"time"

	"badminton-manager/internal/domain"
)

// Shuffler abstracts the random source so selections can be made
// deterministic in tests.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type randShuffler struct {
	r *rand.Rand
}

func (s randShuffler) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// NewShuffler returns a time-seeded shuffler.
func NewShuffler() Shuffler {
	return randShuffler{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Foursome is a proposed doubles pairing: two players per side.
type Foursome struct {
	Left  []domain.Player `json:"left"`
	Right []domain.Player `json:"right"`
}

// AvailablePlayers returns players free to be selected, ordered by id for
// stable browsing. Fairness ordering is a separate concern (FairFour).
func AvailablePlayers(players []domain.Player) []domain.Player {
	var out []domain.Player
	for _, p := range players {
		if p.Status == domain.StatusCome {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AvailableCourts returns courts free to host a match.
func AvailableCourts(courts []domain.Court) []domain.Court {
	var out []domain.Court
	for _, c := range courts {
		if c.Status == domain.CourtAvailable {
			out = append(out, c)
		}
	}
	return out
}

// RankGroup is one non-empty rank bucket, longest-waiting player first.
type RankGroup struct {
	Rank    domain.Rank     `json:"rank"`
	Players []domain.Player `json:"players"`
}

// GroupByRank partitions players into rank buckets ordered by the fixed rank
// priority. Players with an unrecognized rank land in the "unknow" bucket;
// empty buckets are omitted.
func GroupByRank(players []domain.Player) []RankGroup {
	buckets := make(map[domain.Rank][]domain.Player)
	for _, p := range players {
		rank := p.Rank
		if domain.ParseRank(string(rank)) != rank {
			rank = domain.RankUnknown
		}
		buckets[rank] = append(buckets[rank], p)
	}

	var groups []RankGroup
	for _, rank := range domain.RankPriority {
		bucket := buckets[rank]
		if len(bucket) == 0 {
			continue
		}
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].WaitingSince < bucket[j].WaitingSince
		})
		groups = append(groups, RankGroup{Rank: rank, Players: bucket})
	}
	return groups
}

// Selection produces player groupings for new matches.
type Selection struct {
	shuffler Shuffler
}

func NewSelection(shuffler Shuffler) *Selection {
	return &Selection{shuffler: shuffler}
}

// RandomFour picks a uniformly random foursome from the pool: first two
// shuffled players on the left, next two on the right.
func (s *Selection) RandomFour(pool []domain.Player) (Foursome, error) {
	if len(pool) < 4 {
		return Foursome{}, ErrNotEnoughPlayers
	}

	shuffled := make([]domain.Player, len(pool))
	copy(shuffled, pool)
	s.shuffler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return Foursome{Left: shuffled[:2], Right: shuffled[2:4]}, nil
}

// RankFilteredRandomFour restricts the pool to the selected ranks before
// picking randomly.
func (s *Selection) RankFilteredRandomFour(pool []domain.Player, ranks []domain.Rank) (Foursome, error) {
	if len(ranks) == 0 {
		return Foursome{}, ErrNoRanksSelected
	}
	return s.RandomFour(filterByRank(pool, ranks))
}

// FairFour deterministically picks the four longest-waiting players among the
// selected ranks.
func FairFour(pool []domain.Player, ranks []domain.Rank) (Foursome, error) {
	if len(ranks) == 0 {
		return Foursome{}, ErrNoRanksSelected
	}
	filtered := filterByRank(pool, ranks)
	if len(filtered) < 4 {
		return Foursome{}, ErrNotEnoughPlayers
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].WaitingSince < filtered[j].WaitingSince
	})
	return Foursome{Left: filtered[:2], Right: filtered[2:4]}, nil
}

func filterByRank(pool []domain.Player, ranks []domain.Rank) []domain.Player {
	var out []domain.Player
	for _, p := range pool {
		for _, r := range ranks {
			if p.Rank == r {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
