package models

// SelfActivity counts what a user produced themselves.
type SelfActivity struct {
	NbPosts     int64 `json:"nb_posts"`
	NbLikes     int64 `json:"nb_likes"`
	NbBookmarks int64 `json:"nb_bookmarks"`
	NbComments  int64 `json:"nb_comments"`
}

// CommunityActivity counts what other users did on a user's posts.
type CommunityActivity struct {
	NbLikes     int64 `json:"nb_likes"`
	NbBookmarks int64 `json:"nb_bookmarks"`
	NbComments  int64 `json:"nb_comments"`
	NbWonDuels  int64 `json:"nb_won_duels"`
}

// Points is the weighted score of a user and the tier it falls into.
type Points struct {
	FromUser      int64  `json:"from_user"`
	FromCommunity int64  `json:"from_community"`
	Total         int64  `json:"total"`
	Tier          int64  `json:"tier"`
	Status        string `json:"status"`
}

// Stats is the full scoring breakdown for one user.
type Stats struct {
	User          UserSummary       `json:"user"`
	FromUser      SelfActivity      `json:"from_user"`
	FromCommunity CommunityActivity `json:"from_community"`
	Points        Points            `json:"points"`
}

// Weights applied to self activity.
const (
	SelfLikeWeight     int64 = 1
	SelfCommentWeight  int64 = 2
	SelfBookmarkWeight int64 = 5
	SelfPostWeight     int64 = 10
)

// Weights applied to community activity.
const (
	CommunityLikeWeight     int64 = 2
	CommunityCommentWeight  int64 = 4
	CommunityBookmarkWeight int64 = 10
	CommunityWonDuelWeight  int64 = 20
)

// Tier is a status threshold: any total at or above Threshold earns Label.
type Tier struct {
	Threshold int64
	Label     string
}

// Tiers is ordered by ascending threshold.
var Tiers = []Tier{
	{Threshold: 0, Label: "Fail Rookie"},
	{Threshold: 50, Label: "Occasional Klutz"},
	{Threshold: 100, Label: "Professional Flop"},
	{Threshold: 150, Label: "Serial Failer"},
	{Threshold: 200, Label: "Magnificent Loser"},
}

// Score applies the weight tables to both activity sets.
func Score(self SelfActivity, community CommunityActivity) Points {
	fromUser := self.NbLikes*SelfLikeWeight +
		self.NbComments*SelfCommentWeight +
		self.NbBookmarks*SelfBookmarkWeight +
		self.NbPosts*SelfPostWeight
	fromCommunity := community.NbLikes*CommunityLikeWeight +
		community.NbComments*CommunityCommentWeight +
		community.NbBookmarks*CommunityBookmarkWeight +
		community.NbWonDuels*CommunityWonDuelWeight

	total := fromUser + fromCommunity
	tier := TierFor(total)
	return Points{
		FromUser:      fromUser,
		FromCommunity: fromCommunity,
		Total:         total,
		Tier:          tier.Threshold,
		Status:        tier.Label,
	}
}

// TierFor walks the tier table from the highest threshold down and returns
// the first one the total reaches.
func TierFor(total int64) Tier {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if total >= Tiers[i].Threshold {
			return Tiers[i]
		}
	}
	return Tiers[0]
}
