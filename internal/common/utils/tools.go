package utils

import (
	"encoding/base64"
	"encoding/binary"
	"math/rand"
	"strings"
	"time"
)

const AlphaNum = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID utils func: for 12-digit random id generation
func GenerateID() string {
	idLength := 12
	stringBuilder := strings.Builder{}
	for i := 0; i < idLength; i++ {
		index := rand.Intn(len(AlphaNum))
		stringBuilder.WriteRune(rune(AlphaNum[index]))
	}
	return stringBuilder.String()
}

var pid = uint32(time.Now().UnixNano() % 4294967291)

// NewReqID for generate req id
func NewReqID() string {
	var b [12]byte
	binary.LittleEndian.PutUint32(b[:], pid)
	binary.LittleEndian.PutUint64(b[4:], uint64(time.Now().UnixNano()))
	return base64.URLEncoding.EncodeToString(b[:])
}

// JoinIDs 面试官ID列表在interviews表中存为逗号分隔的单字段。
func JoinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

func SplitIDs(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

// HasID reports whether id is present in a joined id list.
func HasID(joined string, id string) bool {
	for _, cur := range SplitIDs(joined) {
		if cur == id {
			return true
		}
	}
	return false
}
