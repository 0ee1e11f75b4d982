package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// SocketRef addresses a socket from a document.
type SocketRef struct {
	Node   string
	Socket string
	Index  int
}

func (r SocketRef) String() string {
	return r.Node + "." + SocketKey(r.Socket, r.Index)
}

// SocketKey is the socket part of a reference: the name, with an index suffix past the first.
func SocketKey(name string, index int) string {
	if index > 0 {
		return fmt.Sprintf("%s[%d]", name, index)
	}
	return name
}

// ParseSocketKey splits "LOD[2]" into its name and index.
func ParseSocketKey(key string) (string, int, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", 0, fmt.Errorf("empty socket name")
	}
	open := strings.LastIndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, 0, nil
	}
	index, err := strconv.Atoi(key[open+1 : len(key)-1])
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("invalid socket index in %q", key)
	}
	name := strings.TrimSpace(key[:open])
	if name == "" {
		return "", 0, fmt.Errorf("empty socket name in %q", key)
	}
	return name, index, nil
}

// ParseRef splits a reference against the set of known node names.
func ParseRef(ref string, known func(node string) bool) (SocketRef, error) {
	for i := len(ref) - 1; i > 0; i-- {
		if ref[i] != '.' || !known(ref[:i]) {
			continue
		}
		name, index, err := ParseSocketKey(ref[i+1:])
		if err != nil {
			return SocketRef{}, err
		}
		return SocketRef{Node: ref[:i], Socket: name, Index: index}, nil
	}
	return SocketRef{}, fmt.Errorf("no known node in reference %q", ref)
}
