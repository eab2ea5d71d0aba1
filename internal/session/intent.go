package session

// IntentKind tags a discrete player intent. The input layer (a local
// UI or the HTTP relay) produces these; the session consumes them
// through a single dispatcher.
type IntentKind string

const (
	IntentBuyLand        IntentKind = "buy_land"
	IntentSelect         IntentKind = "select_silo_or_plant"
	IntentToggleSiloMode IntentKind = "toggle_silo_mode"
	IntentSelectCrop     IntentKind = "select_crop"
	IntentBuyWorker      IntentKind = "buy_worker"
	IntentDismissWorker  IntentKind = "dismiss_worker"
	IntentSellAll        IntentKind = "sell_all"
	IntentTogglePause    IntentKind = "toggle_pause"
	IntentReset          IntentKind = "reset"
)

// Intent is one discrete player action. X/Y and Crop are only read by
// the kinds that need them.
type Intent struct {
	Kind IntentKind `json:"kind"`
	X    int        `json:"x,omitempty"`
	Y    int        `json:"y,omitempty"`
	Crop string     `json:"crop,omitempty"`
}

// Apply dispatches an intent to the matching session operation.
// Unknown kinds are ignored.
func (s *Session) Apply(in Intent) {
	switch in.Kind {
	case IntentBuyLand:
		s.BuyLand(in.X, in.Y)
	case IntentSelect:
		s.ClickTile(in.X, in.Y)
	case IntentToggleSiloMode:
		s.ToggleSiloMode()
	case IntentSelectCrop:
		s.SelectCrop(in.Crop)
	case IntentBuyWorker:
		s.BuyWorker()
	case IntentDismissWorker:
		s.DismissWorker()
	case IntentSellAll:
		s.SellAll()
	case IntentTogglePause:
		s.TogglePause()
	case IntentReset:
		s.Reset()
	}
}
