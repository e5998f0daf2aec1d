package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABIs match the deployed contracts byte-for-byte; do not edit signatures.

const registryABIJSON = `[
	{"type":"function","name":"register","stateMutability":"nonpayable","inputs":[{"name":"agentURI","type":"string"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isRegistered","stateMutability":"view","inputs":[{"name":"identity","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getAgentId","stateMutability":"view","inputs":[{"name":"identity","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]}
]`

const reputationABIJSON = `[
	{"type":"function","name":"giveFeedback","stateMutability":"nonpayable","inputs":[{"name":"agentId","type":"uint256"},{"name":"score","type":"uint8"},{"name":"tag1","type":"bytes32"},{"name":"tag2","type":"bytes32"},{"name":"feedbackUri","type":"string"},{"name":"feedbackHash","type":"bytes32"},{"name":"feedbackAuth","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"getSummary","stateMutability":"view","inputs":[{"name":"agentId","type":"uint256"},{"name":"clientAddresses","type":"address[]"},{"name":"tag1","type":"bytes32"},{"name":"tag2","type":"bytes32"}],"outputs":[{"name":"count","type":"uint64"},{"name":"averageScore","type":"uint8"}]},
	{"type":"function","name":"hasRated","stateMutability":"view","inputs":[{"name":"auditor","type":"address"},{"name":"target","type":"address"}],"outputs":[{"name":"","type":"bool"}]}
]`

const tokenABIJSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	registryABI   = mustParseABI(registryABIJSON)
	reputationABI = mustParseABI(reputationABIJSON)
	tokenABI      = mustParseABI(tokenABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// encodeBytes32 left-aligns a short ASCII tag in a bytes32, the same layout
// ethers' encodeBytes32String produces.
func encodeBytes32(s string) [32]byte {
	var out [32]byte
	copy(out[:], s)
	return out
}
