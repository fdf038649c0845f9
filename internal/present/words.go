package present

import "strconv"

var (
	ones  = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	teens = []string{"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	tens  = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// NumberToWords spells n in kid friendly English for 0..1000.
// Values outside that range are returned as their decimal literal.
func NumberToWords(n int) string {
	switch {
	case n < 0:
		return strconv.Itoa(n)
	case n < 10:
		return ones[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if o := n % 10; o != 0 {
			return tens[n/10] + "-" + ones[o]
		}
		return tens[n/10]
	case n < 1000:
		if r := n % 100; r != 0 {
			return ones[n/100] + " hundred " + NumberToWords(r)
		}
		return ones[n/100] + " hundred"
	case n == 1000:
		return "one thousand"
	}
	return strconv.Itoa(n)
}
