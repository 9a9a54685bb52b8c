package potapi

import (
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/hotpot-network/hotpot/rebase"
	"github.com/hotpot-network/hotpot/staking"
)

// APIs returns the query services for a pot and the controller driving it,
// ready to be registered on an rpc.Server. The services read live state, so
// they must not be served concurrently with actions being executed.
func APIs(pot *staking.Pot, ctrl *rebase.Controller) []rpc.API {
	return []rpc.API{
		{
			Namespace: "pot",
			Service:   NewPotAPI(pot),
		}, {
			Namespace: "rebase",
			Service:   NewRebaseAPI(ctrl),
		},
	}
}

// NewServer creates an rpc.Server with the pot and rebase namespaces
// registered.
func NewServer(pot *staking.Pot, ctrl *rebase.Controller) (*rpc.Server, error) {
	srv := rpc.NewServer()
	for _, api := range APIs(pot, ctrl) {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			srv.Stop()
			return nil, err
		}
	}
	return srv, nil
}
