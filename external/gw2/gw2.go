package gw2

// Wire types for the subset of the game API the contest server consumes.

type tokenInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type accountInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	World   int    `json:"world"`
	Created string `json:"created"`
}

type accountAchievement struct {
	ID       int  `json:"id"`
	Current  int  `json:"current"`
	Max      int  `json:"max"`
	Done     bool `json:"done"`
	Repeated int  `json:"repeated"`
}

type achievementTier struct {
	Count  int `json:"count"`
	Points int `json:"points"`
}

type achievementDetail struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Tiers    []achievementTier `json:"tiers"`
	PointCap int               `json:"point_cap"`
}

// earnedPoints applies the game's achievement-point formula: each tier pays
// out once its count is reached, repeatable achievements pay the full tier sum
// per completion, and point_cap bounds the repeatable total when set.
func earnedPoints(progress accountAchievement, detail achievementDetail) int {
	perRun := 0
	reached := 0
	for _, tier := range detail.Tiers {
		perRun += tier.Points
		if progress.Current >= tier.Count || progress.Done {
			reached += tier.Points
		}
	}

	total := reached
	if progress.Repeated > 0 {
		total += progress.Repeated * perRun
	}
	if progress.Repeated > 0 && detail.PointCap >= 0 && total > detail.PointCap {
		total = detail.PointCap
	}

	return total
}
