package rebase

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/hotpot-network/hotpot/chain"
	"github.com/hotpot-network/hotpot/errs"
	"github.com/hotpot-network/hotpot/oracle"
	"github.com/hotpot-network/hotpot/params"
	"github.com/hotpot-network/hotpot/potdb/memorydb"
	"github.com/hotpot-network/hotpot/roles"
	"github.com/hotpot-network/hotpot/staking"
	"github.com/hotpot-network/hotpot/state"
	"github.com/hotpot-network/hotpot/token"
)

func tAddr(b byte) common.Address { return common.Address{19: b} }

var (
	potOwner = tAddr(1)
	dev      = tAddr(2)
	gov      = tAddr(9)
	keeper   = tAddr(7)
	stranger = tAddr(8)
)

// milli returns n/1000 in 1e18 fixed point.
func milli(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1e15))
}

func mustDec(s string) *uint256.Int { return uint256.MustFromDecimal(s) }

type testEnv struct {
	db     *state.StateDB
	chain  *chain.Manual
	oracle *oracle.Manual
	pot    *staking.Pot
	ctrl   *Controller
}

// newTestEnv deploys a pot at its default parameters, hands it to a
// controller with the default schedule, and seeds the oracle with one
// observation of price 1.0 at t=1000. The chain sits at block 110, t=1000.
func newTestEnv(t *testing.T, mutate func(*params.RebaseConfig)) *testEnv {
	t.Helper()
	db, err := state.New(memorydb.New())
	if err != nil {
		t.Fatal(err)
	}
	ctx := chain.NewManual(110, 1000)
	if _, err := token.Deploy(db, params.HotpotBaseAddress, params.YuanYangPotAddress, "HOTPOT"); err != nil {
		t.Fatal(err)
	}
	cfg := params.DefaultConfig()
	cfg.Pot.Owner, cfg.Pot.Dev = potOwner, dev
	pot, err := staking.Deploy(db, ctx, params.YuanYangPotAddress, &cfg.Pot)
	if err != nil {
		t.Fatalf("deploy pot: %v", err)
	}
	if err := pot.TransferPotOwnership(potOwner, params.ChefMaoAddress); err != nil {
		t.Fatal(err)
	}
	src := oracle.NewManual(0)
	if err := src.Observe(params.PriceScale, 1000); err != nil {
		t.Fatal(err)
	}
	cfg.Rebase.Gov = gov
	if mutate != nil {
		mutate(&cfg.Rebase)
	}
	ctrl, err := Deploy(db, ctx, params.ChefMaoAddress, pot, src, &cfg.Rebase)
	if err != nil {
		t.Fatalf("deploy controller: %v", err)
	}
	return &testEnv{db: db, chain: ctx, oracle: src, pot: pot, ctrl: ctrl}
}

// activate initializes the TWAP at t=1000 and activates rebasing once the
// delay has passed.
func (e *testEnv) activate(t *testing.T) {
	t.Helper()
	if err := e.ctrl.InitTwap(gov); err != nil {
		t.Fatalf("initTwap: %v", err)
	}
	e.chain.SetTime(1000 + e.ctrl.ReadTiming().RebaseDelaySec)
	if err := e.ctrl.ActivateRebasing(); err != nil {
		t.Fatalf("activateRebasing: %v", err)
	}
}

// rebaseAt observes price at now and triggers a rebase.
func (e *testEnv) rebaseAt(t *testing.T, now uint64, price *uint256.Int) error {
	t.Helper()
	if err := e.oracle.Observe(price, now); err != nil {
		t.Fatal(err)
	}
	e.chain.SetTime(now)
	return e.ctrl.Rebase(keeper)
}

func TestDeploy(t *testing.T) {
	env := newTestEnv(t, nil)
	st := env.ctrl.ReadState()
	if st.Epoch != 0 || st.TwapInitialized || st.RebasingActive {
		t.Fatalf("fresh state: %s", spew.Sdump(st))
	}
	require.True(t, st.TargetPrice.Eq(params.DefaultTargetPrice))
	require.True(t, st.FarmHotpotBasePerBlock.Eq(mustDec("100000000000000000000")))
	require.Equal(t, gov, env.ctrl.Gov())
	require.Equal(t, TimingConfig{86400, 28800, 3600, 43200}, env.ctrl.ReadTiming())

	th := env.ctrl.ReadThresholds()
	require.True(t, th.DeviationThreshold.Eq(uint256.NewInt(5e16)))
	require.Equal(t, uint64(2), th.RetargetThreshold)
	require.Equal(t, uint64(10), th.TargetStock2Flow)

	cfg := params.DefaultConfig().Rebase
	if _, err := Deploy(env.db, env.chain, params.ChefMaoAddress, env.pot, env.oracle, &cfg); err != ErrAlreadyDeployed {
		t.Fatalf("redeploy: have %v want %v", err, ErrAlreadyDeployed)
	}
	cfg.RetargetThreshold = 0
	if _, err := Deploy(env.db, env.chain, tAddr(0x55), env.pot, env.oracle, &cfg); !errors.Is(err, errs.ErrInvalidParameter) {
		t.Fatalf("invalid config: %v", err)
	}
}

func TestDeployRejectsWideBand(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, mutate := range []func(*params.RebaseConfig){
		func(c *params.RebaseConfig) { c.DeviationThreshold = params.NewDecimal(uint256.NewInt(2e18)) },
		func(c *params.RebaseConfig) { c.DeviationThreshold = params.NewDecimal(params.PriceScale) },
		func(c *params.RebaseConfig) { c.DeviationMovement = params.NewDecimal(params.PriceScale) },
	} {
		cfg := params.DefaultConfig().Rebase
		cfg.Gov = gov
		mutate(&cfg)
		if _, err := Deploy(env.db, env.chain, tAddr(0x56), env.pot, env.oracle, &cfg); !errors.Is(err, errs.ErrInvalidParameter) {
			t.Fatalf("deploy: have %v want ErrInvalidParameter", err)
		}
	}
	if !At(env.db, env.chain, tAddr(0x56), env.pot, env.oracle).getTargetPrice().IsZero() {
		t.Fatal("rejected deployment left state behind")
	}
}

func TestInitTwap(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.ctrl.InitTwap(stranger); err != roles.ErrNotGov {
		t.Fatalf("stranger: have %v want %v", err, roles.ErrNotGov)
	}
	if err := env.ctrl.ActivateRebasing(); err != ErrNotInitialized {
		t.Fatalf("activate before init: %v", err)
	}
	if err := env.ctrl.InitTwap(gov); err != nil {
		t.Fatal(err)
	}
	st := env.ctrl.ReadState()
	require.True(t, st.TwapInitialized)
	require.True(t, st.PriceCumulativeLast.Eq(mustDec("1000000000000000000000")))
	require.Equal(t, uint64(1000), st.BlockTimestampLast)
	require.Equal(t, uint64(1000), st.TimeOfTwapInit)

	if err := env.ctrl.InitTwap(gov); err != ErrAlreadyInitialized {
		t.Fatalf("second init: have %v want %v", err, ErrAlreadyInitialized)
	}
}

func TestInitTwapNoTrades(t *testing.T) {
	env := newTestEnv(t, nil)
	env.oracle.Set(new(uint256.Int), 1000)
	if err := env.ctrl.InitTwap(gov); err != ErrNoTrades {
		t.Fatalf("have %v want %v", err, ErrNoTrades)
	}
	require.False(t, env.ctrl.ReadState().TwapInitialized)
}

func TestActivateRebasing(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.ctrl.InitTwap(gov); err != nil {
		t.Fatal(err)
	}
	env.chain.SetTime(44199)
	if err := env.ctrl.ActivateRebasing(); err != ErrDelayNotElapsed {
		t.Fatalf("early: have %v want %v", err, ErrDelayNotElapsed)
	}
	env.chain.SetTime(44200)
	n := env.db.LogCount()
	if err := env.ctrl.ActivateRebasing(); err != nil {
		t.Fatal(err)
	}
	require.True(t, env.ctrl.ReadState().RebasingActive)
	require.Equal(t, RebasingActivatedEvent{Time: 44200}, env.db.LogsFrom(n)[0].Event)

	// Repeating is harmless and silent.
	n = env.db.LogCount()
	if err := env.ctrl.ActivateRebasing(); err != nil {
		t.Fatal(err)
	}
	require.Equal(t, n, env.db.LogCount())
}

func TestInRebaseWindow(t *testing.T) {
	env := newTestEnv(t, func(c *params.RebaseConfig) { c.RebaseDelaySec = 0 })
	if _, err := env.ctrl.InRebaseWindow(); err != ErrRebasingNotActive {
		t.Fatalf("inactive: have %v want %v", err, ErrRebasingNotActive)
	}
	env.activate(t)

	tests := []struct {
		now  uint64
		want error
	}{
		{0, ErrTooEarly},
		{28799, ErrTooEarly},
		{28800, nil},
		{32399, nil},
		{32400, ErrTooLate},
		{36000, ErrTooLate},
		{86400 + 28800, nil},
	}
	for _, tt := range tests {
		env.chain.SetTime(tt.now)
		ok, err := env.ctrl.InRebaseWindow()
		if err != tt.want {
			t.Errorf("t=%d: have %v want %v", tt.now, err, tt.want)
		}
		if ok != (tt.want == nil) {
			t.Errorf("t=%d: in window %v", tt.now, ok)
		}
	}
}

func TestRebaseSequence(t *testing.T) {
	env := newTestEnv(t, nil)
	env.activate(t)

	steps := []struct {
		now      uint64
		price    *uint256.Int
		rate     *uint256.Int
		target   *uint256.Int
		up, down uint64
		breaker  bool
	}{
		{115201, milli(1000), mustDec("100000000000000000000"), milli(1000), 0, 0, false},
		{201601, milli(1050), mustDec("105000000000000000000"), milli(1000), 1, 0, false},
		{288001, milli(950), mustDec("105263157894736842105"), milli(1000), 0, 1, true},
		{374401, milli(950), mustDec("105263157894736842105"), milli(950), 0, 0, true},
		{460801, milli(1000), mustDec("105263157894736842105"), milli(950), 1, 0, false},
		{547201, milli(1000), mustDec("105263157894736842105"), mustDec("997500000000000000"), 0, 0, false},
		{633601, milli(1000), mustDec("100250626566416040100"), mustDec("997500000000000000"), 0, 0, false},
	}
	for i, s := range steps {
		n := env.db.LogCount()
		if err := env.rebaseAt(t, s.now, s.price); err != nil {
			t.Fatalf("step %d: rebase: %v", i, err)
		}
		st := env.ctrl.ReadState()
		em := env.pot.Emission()
		if !em.HotpotBasePerBlock.Eq(s.rate) || !st.TargetPrice.Eq(s.target) ||
			st.UpwardCounter != s.up || st.DownwardCounter != s.down || em.InCircuitBreaker != s.breaker {
			t.Fatalf("step %d: state %s emission %s", i, spew.Sdump(st), spew.Sdump(em))
		}
		require.Equal(t, uint64(i+1), st.Epoch)
		require.Equal(t, s.now-1, st.LastRebaseTimestamp)
		require.Equal(t, s.now, st.BlockTimestampLast)

		logs := env.db.LogsFrom(n)
		ev, ok := logs[len(logs)-1].Event.(RebaseEvent)
		if !ok {
			t.Fatalf("step %d: last log %T", i, logs[len(logs)-1].Event)
		}
		require.Equal(t, keeper, ev.Caller)
		require.True(t, ev.Twap.Eq(s.price), "step %d twap %v", i, ev.Twap)
		require.True(t, ev.HotpotBasePerBlock.Eq(s.rate))
		require.Equal(t, s.breaker, ev.InCircuitBreaker)
	}
}

func TestRebaseOncePerWindow(t *testing.T) {
	env := newTestEnv(t, nil)
	env.activate(t)

	env.chain.SetTime(100000)
	if err := env.ctrl.Rebase(keeper); err != ErrTooEarly {
		t.Fatalf("outside window: have %v want %v", err, ErrTooEarly)
	}
	if err := env.rebaseAt(t, 115201, milli(1000)); err != nil {
		t.Fatal(err)
	}
	n := env.db.LogCount()
	if err := env.rebaseAt(t, 115300, milli(1200)); err != ErrAlreadyTriggered {
		t.Fatalf("second rebase: have %v want %v", err, ErrAlreadyTriggered)
	}
	st := env.ctrl.ReadState()
	require.Equal(t, uint64(1), st.Epoch)
	require.Equal(t, uint64(115200), st.LastRebaseTimestamp)
	require.Equal(t, n, env.db.LogCount())

	// The next window accepts a rebase again.
	if err := env.rebaseAt(t, 201700, milli(1000)); err != nil {
		t.Fatalf("next window: %v", err)
	}
	require.Equal(t, uint64(2), env.ctrl.ReadState().Epoch)
}

func TestRebaseMinIntervalAfterTimingChange(t *testing.T) {
	env := newTestEnv(t, nil)
	env.activate(t)
	if err := env.rebaseAt(t, 115201, milli(1000)); err != nil {
		t.Fatal(err)
	}
	// Moving the window later opens a fresh window in the same period.
	if err := env.ctrl.SetRebaseTimingParameters(gov, 86400, 30000, 3600); err != nil {
		t.Fatal(err)
	}
	if err := env.rebaseAt(t, 116401, milli(1000)); err != ErrIntervalNotElapsed {
		t.Fatalf("same period: have %v want %v", err, ErrIntervalNotElapsed)
	}
	require.Equal(t, uint64(1), env.ctrl.ReadState().Epoch)

	if err := env.rebaseAt(t, 86400*2+30001, milli(1000)); err != nil {
		t.Fatalf("next period: %v", err)
	}
	st := env.ctrl.ReadState()
	require.Equal(t, uint64(2), st.Epoch)
	require.Equal(t, uint64(86400*2+30000), st.LastRebaseTimestamp)
}

func TestRebaseNotActive(t *testing.T) {
	env := newTestEnv(t, nil)
	env.chain.SetTime(115201)
	if err := env.ctrl.Rebase(keeper); err != ErrRebasingNotActive {
		t.Fatalf("have %v want %v", err, ErrRebasingNotActive)
	}
}

func TestRebaseNoElapsedTime(t *testing.T) {
	env := newTestEnv(t, nil)
	env.activate(t)
	if err := env.rebaseAt(t, 115201, milli(1000)); err != nil {
		t.Fatal(err)
	}
	// The oracle has no newer sample.
	env.chain.SetTime(201601)
	if err := env.ctrl.Rebase(keeper); err != ErrNoElapsedTime {
		t.Fatalf("have %v want %v", err, ErrNoElapsedTime)
	}
	require.Equal(t, uint64(1), env.ctrl.ReadState().Epoch)
}

func TestRebaseRollsBackWithoutPotOwnership(t *testing.T) {
	env := newTestEnv(t, nil)
	env.activate(t)
	if err := env.ctrl.TransferPotOwnership(gov, potOwner); err != nil {
		t.Fatal(err)
	}
	before := env.ctrl.ReadState()
	n := env.db.LogCount()
	if err := env.rebaseAt(t, 115201, milli(950)); err != roles.ErrNotOwner {
		t.Fatalf("have %v want %v", err, roles.ErrNotOwner)
	}
	require.Equal(t, before, env.ctrl.ReadState())
	require.Equal(t, n, env.db.LogCount())
	require.False(t, env.pot.Emission().InCircuitBreaker)
}

func TestRebaseHalving(t *testing.T) {
	env := newTestEnv(t, nil)
	env.activate(t)
	env.chain.SetBlockNumber(88988)
	if err := env.rebaseAt(t, 115201, milli(950)); err != nil {
		t.Fatal(err)
	}
	st := env.ctrl.ReadState()
	require.Equal(t, uint64(1), st.HalvingCounter)
	require.True(t, st.FarmHotpotBasePerBlock.Eq(mustDec("50000000000000000000")))
	require.True(t, env.pot.Emission().HotpotBasePerBlock.Eq(mustDec("52631578947368421052")))

	// Still inside the second interval: no further halving.
	env.chain.SetBlockNumber(88988 + 100)
	if err := env.rebaseAt(t, 201601, milli(1000)); err != nil {
		t.Fatal(err)
	}
	st = env.ctrl.ReadState()
	require.Equal(t, uint64(1), st.HalvingCounter)
	require.True(t, st.FarmHotpotBasePerBlock.Eq(mustDec("50000000000000000000")))
}
