package contract

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// BuiltinKind describes a contract whose ABI is embedded in the binary. New
// built-ins register themselves via init() in their own <name>_abi.go file.
type BuiltinKind struct {
	ID          string  // machine key, e.g. "cryptodevtoken"
	Name        string  // human label
	Description string  // one-line summary shown by `cdico contracts`
	ABI         abi.ABI // parsed ABI, ready to pack and unpack
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin parses abiJSON and adds it to the registry. It panics on a
// malformed ABI since built-ins are compiled in.
func RegisterBuiltin(id, name, description, abiJSON string) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("contract: parsing builtin ABI %q: %v", id, err))
	}
	builtinRegistry[id] = BuiltinKind{ID: id, Name: name, Description: description, ABI: parsed}
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MethodInfo is one ABI function as listed by `cdico contracts`.
type MethodInfo struct {
	Signature  string // e.g. "mint(uint256)"
	Selector   string // 0x-prefixed 4-byte selector
	Mutability string // view | pure | nonpayable | payable
}

// Methods lists a built-in's functions sorted by signature.
func (b BuiltinKind) Methods() []MethodInfo {
	out := make([]MethodInfo, 0, len(b.ABI.Methods))
	for _, m := range b.ABI.Methods {
		out = append(out, MethodInfo{
			Signature:  m.Sig,
			Selector:   "0x" + hex.EncodeToString(Selector(m.Sig)),
			Mutability: m.StateMutability,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out
}

// Selector computes the 4-byte function selector of a canonical signature
// such as "balanceOf(address)".
func Selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}
