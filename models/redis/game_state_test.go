package redis

import (
	game_constants "Kkutmal/constants/game"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(players int) *GameState {
	state := NewGameState("room1", 1, SettingsForMode(game_constants.ModeClassic), time.Now())
	for i := 0; i < players; i++ {
		state.Players = append(state.Players, Player{
			UserID:   i + 1,
			Nickname: "player",
			Status:   PlayerPlaying,
			IsHost:   i == 0,
		})
	}
	return state
}

func TestComputeTurnTimeLimitShrinks(t *testing.T) {
	state := testState(3)

	assert.Equal(t, 30000, state.ComputeTurnTimeLimit())

	state.TotalTurnsInRound = 1
	assert.Equal(t, 25000, state.ComputeTurnTimeLimit())

	state.TotalTurnsInRound = 5
	assert.Equal(t, 5000, state.ComputeTurnTimeLimit())

	// Shrink never goes below the floor
	state.TotalTurnsInRound = 100
	assert.Equal(t, state.Settings.MinTurnTimeMs, state.ComputeTurnTimeLimit())
}

func TestAdvanceTurnWrapsAndShrinks(t *testing.T) {
	state := testState(3)

	state.AdvanceTurn()
	assert.Equal(t, 1, state.CurrentTurnIndex)
	assert.Equal(t, 1, state.TotalTurnsInRound)
	assert.Equal(t, 25000, state.TurnTimeLimitMs)
	// Round boundaries are not AdvanceTurn's business
	assert.Equal(t, 1, state.CurrentRound)

	state.AdvanceTurn()
	state.AdvanceTurn()
	assert.Equal(t, 0, state.CurrentTurnIndex)
	assert.Equal(t, 1, state.CurrentRound)
}

func TestCompleteRoundResetsChainAndLimit(t *testing.T) {
	state := testState(2)
	state.AddWord("사과", 1, 10, time.Now())
	state.AdvanceTurn()
	state.AdvanceTurn()

	state.CompleteRound()

	assert.Equal(t, 2, state.CurrentRound)
	assert.Equal(t, 0, state.CurrentTurnIndex)
	assert.Equal(t, 0, state.TotalTurnsInRound)
	assert.Equal(t, state.Settings.InitialTurnTimeMs, state.TurnTimeLimitMs)
	assert.Empty(t, state.WordChain.Words)
	assert.Equal(t, "", state.WordChain.CurrentLastChar)
	assert.False(t, state.WordChain.IsUsed("사과"))
	// The cross-round timeline survives
	assert.Len(t, state.WordTimeline, 1)
}

func TestAddWordTracksChainAndTimeline(t *testing.T) {
	state := testState(2)

	state.AddWord("사과", 1, 25, time.Now())
	state.AddWord("과일", 2, 30, time.Now())

	assert.Equal(t, "일", state.WordChain.CurrentLastChar)
	assert.True(t, state.WordChain.IsUsed("사과"))
	assert.True(t, state.WordChain.IsUsed("과일"))
	assert.Len(t, state.WordTimeline, 2)
	assert.Equal(t, 1, state.PlayerByID(1).WordsSubmitted)
	assert.Equal(t, 1, state.PlayerByID(2).WordsSubmitted)
}

func TestResetForNewGameKeepsRoster(t *testing.T) {
	state := testState(3)
	state.Status = StatusFinished
	state.CurrentRound = 5
	state.AddWord("사과", 1, 25, time.Now())
	state.Players[0].Score = 120
	state.Players[0].MaxCombo = 4
	state.StartedAt = time.Now()

	state.ResetForNewGame()

	assert.Equal(t, StatusWaiting, state.Status)
	assert.Equal(t, 1, state.CurrentRound)
	assert.Len(t, state.Players, 3)
	assert.Equal(t, 0, state.Players[0].Score)
	assert.Equal(t, 0, state.Players[0].MaxCombo)
	assert.Equal(t, PlayerWaiting, state.Players[0].Status)
	assert.Empty(t, state.WordTimeline)
	assert.True(t, state.StartedAt.IsZero())
}

func TestRemovePlayerKeepsTurnPointer(t *testing.T) {
	state := testState(4)
	state.CurrentTurnIndex = 2

	// Removing someone before the current player shifts the index down
	require.True(t, state.RemovePlayer(1))
	assert.Equal(t, 1, state.CurrentTurnIndex)
	assert.Equal(t, 3, state.CurrentPlayer().UserID)

	// Removing the last player while they hold the turn wraps to 0
	state.CurrentTurnIndex = 2
	require.True(t, state.RemovePlayer(4))
	assert.Equal(t, 0, state.CurrentTurnIndex)

	assert.False(t, state.RemovePlayer(99))
}

func TestTransferHost(t *testing.T) {
	state := testState(3)
	state.RemovePlayer(1)

	newHost := state.TransferHost()
	require.NotNil(t, newHost)
	assert.Equal(t, 2, newHost.UserID)
	assert.True(t, state.Players[0].IsHost)
	assert.False(t, state.Players[1].IsHost)
}

func TestAllReady(t *testing.T) {
	state := testState(2)
	for i := range state.Players {
		state.Players[i].Status = PlayerWaiting
	}
	assert.False(t, state.AllReady())

	state.Players[0].Status = PlayerReady
	assert.False(t, state.AllReady())

	state.Players[1].Status = PlayerReady
	assert.True(t, state.AllReady())

	empty := NewGameState("room2", 1, SettingsForMode(game_constants.ModeClassic), time.Now())
	assert.False(t, empty.AllReady())
}
