package cli

import (
	"fmt"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/llehouerou/serenade/internal/config"
	"github.com/llehouerou/serenade/internal/errmsg"
	"github.com/llehouerou/serenade/internal/gate"
	"github.com/llehouerou/serenade/internal/state"
)

func GateCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "gate",
		Short: "Manage the startup passphrase",
		Long: "The passphrase keeps casual users out of the player. It is not a security " +
			"boundary: the library and the state database are not encrypted.",
		SubCmds: []*cobra.Command{
			gateHashCmd(),
			gateLockCmd(),
		},
	}.ToCobra()
}

func gateHashCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "hash",
		Short: "Hash a new passphrase for the config file",
		RunFunc: func(_ *boa.NoParams, cmd *cobra.Command, args []string) {
			exitOnError(runGateHash())
		},
	}.ToCobra()
}

func runGateHash() error {
	pass, err := gate.NewPrompter(os.Stdin, os.Stderr).ReadNewPassphrase()
	if err != nil {
		return err
	}
	hash, err := gate.Hash(pass)
	if err != nil {
		return errmsg.Wrap(errmsg.OpGateHash, err)
	}
	fmt.Println(hash)
	fmt.Fprintf(os.Stderr, "\nSet it as passphrase_hash in [gate] or export %s.\n", config.EnvGateHash)
	return nil
}

func gateLockCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "lock",
		Short: "End the unlocked session",
		RunFunc: func(_ *boa.NoParams, cmd *cobra.Command, args []string) {
			exitOnError(runGateLock())
		},
	}.ToCobra()
}

func runGateLock() error {
	st, err := state.Open(consoleLogger())
	if err != nil {
		return errmsg.Wrap(errmsg.OpInitialize, err)
	}
	defer st.Close()
	if err := st.ClearGateSession(); err != nil {
		return err
	}
	fmt.Println("Locked")
	return nil
}
