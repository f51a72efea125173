package jsname

import (
	"strconv"
	"strings"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// EncodeNumber renders i in the base-62 alphabet above, least significant
// digit first. The result may start with a digit; MinimizedName makes it
// an identifier.
func EncodeNumber(i int) string {
	if i < 0 {
		panic("jsname: negative counter " + strconv.Itoa(i))
	}
	var b strings.Builder
	for {
		b.WriteByte(alphabet[i%len(alphabet)])
		i /= len(alphabet)
		if i == 0 {
			break
		}
	}
	return b.String()
}

// MinimizedName is the synthetic "$"-prefixed name for counter value i.
func MinimizedName(i int) string {
	return "$" + EncodeNumber(i)
}
