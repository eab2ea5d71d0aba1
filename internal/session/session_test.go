package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/acreage/internal/config"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	return New(config.Default(), 42)
}

func TestBuyLandChargesOnce(t *testing.T) {
	s := testSession(t)
	require.Equal(t, 30000.0, s.Money)

	s.Apply(Intent{Kind: IntentBuyLand, X: 0, Y: 0})
	require.Equal(t, 29500.0, s.Money)
	require.True(t, s.Field.At(0, 0).Purchased)

	// Buying the same plot again must not charge.
	s.Apply(Intent{Kind: IntentBuyLand, X: 0, Y: 0})
	require.Equal(t, 29500.0, s.Money)
}

func TestBuyLandRefusedWhenBroke(t *testing.T) {
	s := testSession(t)
	s.Money = 499

	s.BuyLand(1, 1)
	require.Equal(t, 499.0, s.Money)
	require.False(t, s.Field.At(1, 1).Purchased)
}

func TestQueueSeedMoneyBoundary(t *testing.T) {
	s := testSession(t)
	s.Field.Purchase(0, 0)
	s.Field.Purchase(1, 0)

	_, seedPrice := s.Prices.Prices(s.Selected)

	// A hair under the seed price: refused.
	s.Money = seedPrice - 0.01
	s.ClickTile(0, 0)
	require.Empty(t, s.Field.At(0, 0).Pending)
	require.Equal(t, seedPrice-0.01, s.Money)

	// Exactly the seed price: allowed, money goes to zero.
	s.Money = seedPrice
	s.ClickTile(1, 0)
	require.Equal(t, "Wheat", s.Field.At(1, 0).Pending)
	require.InDelta(t, 0.0, s.Money, 1e-9)
}

func TestQueueSeedIsTwoPhase(t *testing.T) {
	s := testSession(t)
	s.Field.Purchase(3, 2)
	s.ClickTile(3, 2)

	p := s.Field.At(3, 2)
	require.Equal(t, "Wheat", p.Pending, "seed reserved, not yet planted")
	require.Nil(t, p.Plant, "planting waits for a worker")

	// Run the clock until the lone worker walks over and plants it.
	var plantedAt float64
	for i := 0; i < 2000 && p.Plant == nil; i++ {
		s.Tick(0.05)
		if p.Plant != nil {
			plantedAt = s.GameTime
		}
	}
	require.NotNil(t, p.Plant, "worker never delivered the seed")
	require.Empty(t, p.Pending)
	require.Equal(t, plantedAt, p.Plant.PlantedTime)
}

func TestSellAllScenario(t *testing.T) {
	s := testSession(t)
	s.Field.Inventory["Wheat"] = 3
	s.Money = 0

	s.Apply(Intent{Kind: IntentSellAll})

	// Fresh prices: Wheat sells at its base 80.
	require.InDelta(t, 240.0, s.Money, 1e-9)
	require.Equal(t, 0, s.Field.Inventory["Wheat"])
}

func TestUpkeepScalesWithWorkers(t *testing.T) {
	s := testSession(t)
	s.Money = 1000

	s.Tick(2)
	require.InDelta(t, 1000-5*1*2, s.Money, 1e-9)

	s.BuyWorker()
	money := s.Money
	s.Tick(2)
	require.InDelta(t, money-5*2*2, s.Money, 1e-9)
}

func TestUpkeepMayGoNegative(t *testing.T) {
	s := testSession(t)
	s.Money = 1

	s.Tick(10)
	require.Less(t, s.Money, 0.0)
}

func TestGameOverIsTerminal(t *testing.T) {
	cfg := config.Default()
	cfg.Duration = 10
	s := New(cfg, 1)

	s.Tick(9)
	require.False(t, s.GameOver)

	s.Tick(2)
	require.True(t, s.GameOver)
	require.True(t, s.Paused)

	// Game over survives even a rewound clock; only Reset clears it.
	s.GameTime = 0
	s.Tick(5)
	require.True(t, s.GameOver)
	require.Equal(t, 0.0, s.GameTime, "the clock stops for good")

	s.TogglePause()
	require.True(t, s.Paused)

	s.Reset()
	require.False(t, s.GameOver)
	require.Equal(t, cfg.StartingMoney, s.Money)
}

func TestPriceTimerCarriesOverflow(t *testing.T) {
	s := testSession(t)

	s.Tick(25) // interval is 20
	require.InDelta(t, 5.0, s.PriceTimer, 1e-9)

	ps, _ := s.Prices.State("Wheat")
	require.Len(t, ps.History, 2, "one update fired")
}

func TestWorkerHireAndLIFODismiss(t *testing.T) {
	s := testSession(t)
	require.Len(t, s.Workers, 1)

	s.Apply(Intent{Kind: IntentBuyWorker})
	require.Len(t, s.Workers, 2)
	require.Equal(t, 28000.0, s.Money)

	second := s.Workers[1].ID
	s.Apply(Intent{Kind: IntentBuyWorker})
	s.Apply(Intent{Kind: IntentDismissWorker})
	require.Len(t, s.Workers, 2)
	require.Equal(t, second, s.Workers[1].ID, "most recent hire goes first")
}

func TestBuyWorkerRefusedWhenBroke(t *testing.T) {
	s := testSession(t)
	s.Money = 1999

	s.BuyWorker()
	require.Len(t, s.Workers, 1)
	require.Equal(t, 1999.0, s.Money)
}

func TestSiloPlacementIsSingleShot(t *testing.T) {
	s := testSession(t)
	s.Field.Purchase(2, 2)

	s.Apply(Intent{Kind: IntentToggleSiloMode})
	require.True(t, s.SiloMode)

	money := s.Money
	s.Apply(Intent{Kind: IntentSelect, X: 2, Y: 2})
	require.False(t, s.SiloMode, "mode exits after one attempt")
	require.True(t, s.Field.At(2, 2).HasSilo)
	require.Equal(t, money-s.Config.SiloCost, s.Money)
	require.Equal(t, s.Field.IndexOf(2, 2), s.SelectedSilo)

	// A failed attempt also exits the mode and charges nothing.
	s.ToggleSiloMode()
	money = s.Money
	s.ClickTile(2, 2) // already a silo
	require.False(t, s.SiloMode)
	require.Equal(t, money, s.Money)
	require.Equal(t, 1, s.Field.NumSilos)
}

func TestClickSelectsAndClearsSilo(t *testing.T) {
	s := testSession(t)
	s.Field.Purchase(4, 4)
	s.Field.PlaceSilo(4, 4)

	s.ClickTile(4, 4)
	require.Equal(t, s.Field.IndexOf(4, 4), s.SelectedSilo)

	// Clicking off the grid clears the selection.
	s.ClickTile(-1, -1)
	require.Equal(t, -1, s.SelectedSilo)
}

func TestSelectCropLeavesSiloMode(t *testing.T) {
	s := testSession(t)
	s.ToggleSiloMode()

	s.Apply(Intent{Kind: IntentSelectCrop, Crop: "Berries"})
	require.Equal(t, "Berries", s.Selected.Name)
	require.False(t, s.SiloMode)

	s.SelectCrop("Kale")
	require.Equal(t, "Berries", s.Selected.Name, "unknown crop ignored")
}

func TestActionAtPreviews(t *testing.T) {
	s := testSession(t)

	require.Equal(t, "buy land", s.ActionAt(0, 0))
	require.Equal(t, "", s.ActionAt(99, 99))

	s.Field.Purchase(0, 0)
	require.Equal(t, "plant Wheat", s.ActionAt(0, 0))

	s.ToggleSiloMode()
	require.Equal(t, "build silo", s.ActionAt(0, 0))
	s.ToggleSiloMode()

	s.Field.PlaceSilo(0, 0)
	require.Equal(t, "inspect silo", s.ActionAt(0, 0))

	s.Money = 0
	require.Equal(t, "", s.ActionAt(1, 1), "no funds, no purchase preview")
}

func TestIntentsIgnoredAfterGameOver(t *testing.T) {
	cfg := config.Default()
	cfg.Duration = 1
	s := New(cfg, 1)
	s.Tick(2)
	require.True(t, s.GameOver)

	money := s.Money
	s.Apply(Intent{Kind: IntentBuyLand, X: 0, Y: 0})
	require.Equal(t, money, s.Money)
	require.False(t, s.Field.At(0, 0).Purchased)

	s.Apply(Intent{Kind: IntentBuyWorker})
	require.Len(t, s.Workers, 1)

	s.Apply(Intent{Kind: IntentTogglePause})
	require.True(t, s.Paused)
}
