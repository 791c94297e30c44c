package common

import (
	"fmt"
	"strings"

	"dexter-rewards-go/internal/models"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintSection prints a box-drawing section title
func PrintSection(title string, width int) {
	fmt.Printf("\n┌─ %s\n", title)
	fmt.Println("├" + strings.Repeat("─", width-2))
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// ShortAddress abbreviates a ledger address to its prefix and last characters
func ShortAddress(address string) string {
	const keep = 6
	separator := strings.LastIndex(address, "1")
	if separator < 0 || len(address)-separator-1 <= 2*keep {
		return address
	}
	return address[:separator+1+keep] + "..." + address[len(address)-keep:]
}

// TokenLabel renders a token as "SYMBOL (short address)"
func TokenLabel(token models.TokenInfo) string {
	return fmt.Sprintf("%s (%s)", token.Symbol, ShortAddress(token.Address))
}

// PrintTokenRewards prints one line per token amount
func PrintTokenRewards(tokens []models.TokenReward) {
	for i, token := range tokens {
		fmt.Printf("%s %-32s %30s\n", BoxPrefix(i == len(tokens)-1), TokenLabel(token.TokenInfo), token.Amount.String())
	}
}

// PrintTokenAmounts prints persisted per-token totals
func PrintTokenAmounts(amounts []models.TokenAmount) {
	for i, amount := range amounts {
		label := fmt.Sprintf("%s (%s)", amount.Symbol, ShortAddress(amount.Address))
		fmt.Printf("%s %-32s %30s\n", BoxPrefix(i == len(amounts)-1), label, amount.Amount.String())
	}
}
