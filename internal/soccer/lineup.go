package soccer

// PlayerSpec places one roster slot: its role and its home regions while
// the team defends and attacks.
type PlayerSpec struct {
	Role         Role
	DefendRegion int
	AttackRegion int
}

// DefaultLineup is a keeper, two attackers and two defenders.
func DefaultLineup(side TeamSide) []PlayerSpec {
	if side == Blue {
		return []PlayerSpec{
			{Role: RoleGoalKeeper, DefendRegion: 1, AttackRegion: 1},
			{Role: RoleAttacker, DefendRegion: 6, AttackRegion: 12},
			{Role: RoleAttacker, DefendRegion: 8, AttackRegion: 14},
			{Role: RoleDefender, DefendRegion: 3, AttackRegion: 6},
			{Role: RoleDefender, DefendRegion: 5, AttackRegion: 4},
		}
	}
	return []PlayerSpec{
		{Role: RoleGoalKeeper, DefendRegion: 16, AttackRegion: 16},
		{Role: RoleAttacker, DefendRegion: 9, AttackRegion: 3},
		{Role: RoleAttacker, DefendRegion: 11, AttackRegion: 5},
		{Role: RoleDefender, DefendRegion: 12, AttackRegion: 9},
		{Role: RoleDefender, DefendRegion: 14, AttackRegion: 13},
	}
}
