// Package config holds the tunable parameters of a match. Params are loaded
// once before a match starts and never written by the simulation.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Params is the full parameter set.
type Params struct {
	PitchWidth  float64 `json:"pitch_width" yaml:"pitch_width"`
	PitchHeight float64 `json:"pitch_height" yaml:"pitch_height"`
	PitchMargin float64 `json:"pitch_margin" yaml:"pitch_margin"` // inset of the playing area from the pitch edge
	GoalWidth   float64 `json:"goal_width" yaml:"goal_width"`

	// Support spot grid and scoring.
	NumSupportSpotsX              int     `json:"num_support_spots_x" yaml:"num_support_spots_x"`
	NumSupportSpotsY              int     `json:"num_support_spots_y" yaml:"num_support_spots_y"`
	SpotPassSafeScore             float64 `json:"spot_pass_safe_score" yaml:"spot_pass_safe_score"`
	SpotCanScoreFromPositionScore float64 `json:"spot_can_score_from_position_score" yaml:"spot_can_score_from_position_score"`
	SpotDistFromControllingScore  float64 `json:"spot_dist_from_controlling_player_score" yaml:"spot_dist_from_controlling_player_score"`
	SpotOptimalDistance           float64 `json:"spot_optimal_distance" yaml:"spot_optimal_distance"`
	SupportSpotUpdateFreq         float64 `json:"support_spot_update_freq" yaml:"support_spot_update_freq"` // per second

	ChancePlayerAttemptsPotShot      float64 `json:"chance_player_attempts_pot_shot" yaml:"chance_player_attempts_pot_shot"`
	ChanceOfUsingArriveToReceiveBall float64 `json:"chance_of_using_arrive_to_receive_ball" yaml:"chance_of_using_arrive_to_receive_ball"`
	ChancePlayerRequestsPass         float64 `json:"chance_player_requests_pass" yaml:"chance_player_requests_pass"`
	NumAttemptsToFindValidStrike     int     `json:"num_attempts_to_find_valid_strike" yaml:"num_attempts_to_find_valid_strike"`
	ReceiverOpponentClearance        float64 `json:"receiver_opponent_clearance" yaml:"receiver_opponent_clearance"`

	BallSize float64 `json:"ball_size" yaml:"ball_size"`
	BallMass float64 `json:"ball_mass" yaml:"ball_mass"`
	Friction float64 `json:"friction" yaml:"friction"` // negative: deceleration per tick

	KeeperInBallRange     float64 `json:"keeper_in_ball_range" yaml:"keeper_in_ball_range"`
	PlayerInTargetRange   float64 `json:"player_in_target_range" yaml:"player_in_target_range"`
	PlayerKickingDistance float64 `json:"player_kicking_distance" yaml:"player_kicking_distance"`
	PlayerKickFrequency   float64 `json:"player_kick_frequency" yaml:"player_kick_frequency"` // per second

	PlayerMass                float64 `json:"player_mass" yaml:"player_mass"`
	PlayerMaxForce            float64 `json:"player_max_force" yaml:"player_max_force"`
	PlayerMaxSpeedWithBall    float64 `json:"player_max_speed_with_ball" yaml:"player_max_speed_with_ball"`
	PlayerMaxSpeedWithoutBall float64 `json:"player_max_speed_without_ball" yaml:"player_max_speed_without_ball"`
	PlayerMaxTurnRate         float64 `json:"player_max_turn_rate" yaml:"player_max_turn_rate"`
	PlayerScale               float64 `json:"player_scale" yaml:"player_scale"`
	PlayerComfortZone         float64 `json:"player_comfort_zone" yaml:"player_comfort_zone"`
	PlayerKickingAccuracy     float64 `json:"player_kicking_accuracy" yaml:"player_kicking_accuracy"`

	MaxDribbleForce  float64 `json:"max_dribble_force" yaml:"max_dribble_force"`
	MaxShootingForce float64 `json:"max_shooting_force" yaml:"max_shooting_force"`
	MaxPassingForce  float64 `json:"max_passing_force" yaml:"max_passing_force"`

	MinPassDist               float64 `json:"min_pass_dist" yaml:"min_pass_dist"`
	GoalkeeperMinPassDist     float64 `json:"goalkeeper_min_pass_dist" yaml:"goalkeeper_min_pass_dist"`
	GoalKeeperTendingDistance float64 `json:"goalkeeper_tending_distance" yaml:"goalkeeper_tending_distance"`
	GoalKeeperInterceptRange  float64 `json:"goalkeeper_intercept_range" yaml:"goalkeeper_intercept_range"`
	BallWithinReceivingRange  float64 `json:"ball_within_receiving_range" yaml:"ball_within_receiving_range"`

	FrameRate                float64 `json:"frame_rate" yaml:"frame_rate"`
	SeparationCoefficient    float64 `json:"separation_coefficient" yaml:"separation_coefficient"`
	ViewDistance             float64 `json:"view_distance" yaml:"view_distance"`
	NonPenetrationConstraint bool    `json:"non_penetration_constraint" yaml:"non_penetration_constraint"`

	Display Display `json:"display" yaml:"display"`
}

// Display toggles the viewer's debug overlays.
type Display struct {
	States          bool `json:"states" yaml:"states"`
	IDs             bool `json:"ids" yaml:"ids"`
	SupportSpots    bool `json:"support_spots" yaml:"support_spots"`
	Regions         bool `json:"regions" yaml:"regions"`
	ControllingTeam bool `json:"controlling_team" yaml:"controlling_team"`
	ViewTargets     bool `json:"view_targets" yaml:"view_targets"`
	Threatened      bool `json:"highlight_if_threatened" yaml:"highlight_if_threatened"`
}

// Default returns the stock parameter set.
func Default() Params {
	return Params{
		PitchWidth:  700,
		PitchHeight: 400,
		PitchMargin: 20,
		GoalWidth:   100,

		NumSupportSpotsX:              13,
		NumSupportSpotsY:              6,
		SpotPassSafeScore:             2.0,
		SpotCanScoreFromPositionScore: 1.0,
		SpotDistFromControllingScore:  2.0,
		SpotOptimalDistance:           200,
		SupportSpotUpdateFreq:         1,

		ChancePlayerAttemptsPotShot:      0.005,
		ChanceOfUsingArriveToReceiveBall: 0.5,
		ChancePlayerRequestsPass:         0.1,
		NumAttemptsToFindValidStrike:     5,
		ReceiverOpponentClearance:        70,

		BallSize: 5.0,
		BallMass: 1.0,
		Friction: -0.015,

		KeeperInBallRange:     10,
		PlayerInTargetRange:   10,
		PlayerKickingDistance: 6,
		PlayerKickFrequency:   8,

		PlayerMass:                3.0,
		PlayerMaxForce:            1.0,
		PlayerMaxSpeedWithBall:    1.2,
		PlayerMaxSpeedWithoutBall: 1.6,
		PlayerMaxTurnRate:         0.4,
		PlayerScale:               1.0,
		PlayerComfortZone:         60,
		PlayerKickingAccuracy:     0.99,

		MaxDribbleForce:  1.5,
		MaxShootingForce: 6.0,
		MaxPassingForce:  3.0,

		MinPassDist:               120,
		GoalkeeperMinPassDist:     50,
		GoalKeeperTendingDistance: 20,
		GoalKeeperInterceptRange:  100,
		BallWithinReceivingRange:  10,

		FrameRate:             60,
		SeparationCoefficient: 10,
		ViewDistance:          30,

		Display: Display{
			States:          true,
			SupportSpots:    true,
			ControllingTeam: true,
		},
	}
}

// Load reads a YAML parameter file from path. Keys absent from the file keep
// their default values.
func Load(path string) (Params, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return Params{}, fmt.Errorf("open params: %w", err)
	}
	defer f.Close()
	p, err := LoadYAML(f)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadYAML decodes parameters from r over the defaults and validates them.
func LoadYAML(r io.Reader) (Params, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Params{}, fmt.Errorf("decode params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid params")

// Validate checks that every parameter is usable by the simulation.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"pitch_width", p.PitchWidth},
		{"pitch_height", p.PitchHeight},
		{"goal_width", p.GoalWidth},
		{"ball_size", p.BallSize},
		{"ball_mass", p.BallMass},
		{"player_mass", p.PlayerMass},
		{"player_max_force", p.PlayerMaxForce},
		{"player_max_speed_with_ball", p.PlayerMaxSpeedWithBall},
		{"player_max_speed_without_ball", p.PlayerMaxSpeedWithoutBall},
		{"player_max_turn_rate", p.PlayerMaxTurnRate},
		{"player_scale", p.PlayerScale},
		{"max_dribble_force", p.MaxDribbleForce},
		{"max_shooting_force", p.MaxShootingForce},
		{"max_passing_force", p.MaxPassingForce},
		{"frame_rate", p.FrameRate},
		{"view_distance", p.ViewDistance},
	}
	for _, f := range positive {
		if f.v <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %g", ErrInvalid, f.name, f.v)
		}
	}
	if p.PitchMargin < 0 || 2*p.PitchMargin >= p.PitchWidth || 2*p.PitchMargin >= p.PitchHeight {
		return fmt.Errorf("%w: pitch_margin %g does not fit the pitch", ErrInvalid, p.PitchMargin)
	}
	if p.GoalWidth >= p.PitchHeight-2*p.PitchMargin {
		return fmt.Errorf("%w: goal_width %g wider than the playing area", ErrInvalid, p.GoalWidth)
	}
	if p.Friction >= 0 {
		return fmt.Errorf("%w: friction must be negative, got %g", ErrInvalid, p.Friction)
	}
	if p.NumSupportSpotsX < 4 || p.NumSupportSpotsY < 1 {
		return fmt.Errorf("%w: support spot grid %dx%d too small", ErrInvalid, p.NumSupportSpotsX, p.NumSupportSpotsY)
	}
	if p.NumAttemptsToFindValidStrike < 1 {
		return fmt.Errorf("%w: num_attempts_to_find_valid_strike must be >= 1", ErrInvalid)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"chance_player_attempts_pot_shot", p.ChancePlayerAttemptsPotShot},
		{"chance_of_using_arrive_to_receive_ball", p.ChanceOfUsingArriveToReceiveBall},
		{"chance_player_requests_pass", p.ChancePlayerRequestsPass},
		{"player_kicking_accuracy", p.PlayerKickingAccuracy},
	} {
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %g", ErrInvalid, f.name, f.v)
		}
	}
	return nil
}
