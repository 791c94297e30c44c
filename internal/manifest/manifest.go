/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var ErrInvalidLiteral = errors.New("invalid manifest literal")

// Addresses are bech32 encoded: lowercase hrp with underscores, then data.
var addressPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*1[02-9ac-hj-np-z]+$`)

// Value is an argument of a manifest instruction
type Value interface {
	render(sb *strings.Builder)
	validate() error
}

// Address renders Address("...")
type Address string

func (a Address) render(sb *strings.Builder) {
	fmt.Fprintf(sb, "Address(%q)", string(a))
}

func (a Address) validate() error {
	if !addressPattern.MatchString(string(a)) {
		return fmt.Errorf("%w: address %q", ErrInvalidLiteral, string(a))
	}
	return nil
}

// Proof renders Proof("...") for a named proof
type Proof string

func (p Proof) render(sb *strings.Builder) {
	fmt.Fprintf(sb, "Proof(%q)", string(p))
}

func (p Proof) validate() error {
	return validateToken("proof name", string(p))
}

// NonFungibleLocalId renders NonFungibleLocalId("...")
type NonFungibleLocalId string

func (id NonFungibleLocalId) render(sb *strings.Builder) {
	fmt.Fprintf(sb, "NonFungibleLocalId(%q)", string(id))
}

func (id NonFungibleLocalId) validate() error {
	return validateToken("non-fungible local id", string(id))
}

// Expression renders Expression("...")
type Expression string

const EntireWorktop Expression = "ENTIRE_WORKTOP"

func (e Expression) render(sb *strings.Builder) {
	fmt.Fprintf(sb, "Expression(%q)", string(e))
}

func (e Expression) validate() error {
	return validateToken("expression", string(e))
}

// String renders a plain string literal, used for method names
type String string

func (s String) render(sb *strings.Builder) {
	fmt.Fprintf(sb, "%q", string(s))
}

func (s String) validate() error {
	return validateToken("string", string(s))
}

// Array renders Array<ElementType>(elements...)
type Array struct {
	ElementType string
	Elements    []Value
}

func (a Array) render(sb *strings.Builder) {
	sb.WriteString("Array<")
	sb.WriteString(a.ElementType)
	sb.WriteString(">(")
	for i, element := range a.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		element.render(sb)
	}
	sb.WriteString(")")
}

func (a Array) validate() error {
	if err := validateToken("array element type", a.ElementType); err != nil {
		return err
	}
	for _, element := range a.Elements {
		if err := element.validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateToken rejects characters that would terminate or corrupt a quoted
// literal or an instruction.
func validateToken(kind, value string) error {
	if value == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidLiteral, kind)
	}
	for _, r := range value {
		if r == '"' || r == '\\' || r == '(' || r == ')' || r == ';' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %s %q contains %q", ErrInvalidLiteral, kind, value, r)
		}
	}
	return nil
}

// Instruction is one manifest instruction
type Instruction interface {
	render(sb *strings.Builder)
	validate() error
}

// CallMethod renders CALL_METHOD Address("...") "method" args...;
type CallMethod struct {
	Address Address
	Method  string
	Args    []Value
}

func (c CallMethod) render(sb *strings.Builder) {
	sb.WriteString("CALL_METHOD\n    ")
	c.Address.render(sb)
	sb.WriteString("\n    ")
	String(c.Method).render(sb)
	for _, arg := range c.Args {
		sb.WriteString("\n    ")
		arg.render(sb)
	}
	sb.WriteString("\n;\n")
}

func (c CallMethod) validate() error {
	if err := c.Address.validate(); err != nil {
		return err
	}
	if err := String(c.Method).validate(); err != nil {
		return err
	}
	for _, arg := range c.Args {
		if err := arg.validate(); err != nil {
			return err
		}
	}
	return nil
}

// PopFromAuthZone renders POP_FROM_AUTH_ZONE Proof("...");
type PopFromAuthZone struct {
	Proof Proof
}

func (p PopFromAuthZone) render(sb *strings.Builder) {
	sb.WriteString("POP_FROM_AUTH_ZONE\n    ")
	p.Proof.render(sb)
	sb.WriteString("\n;\n")
}

func (p PopFromAuthZone) validate() error {
	return p.Proof.validate()
}

// CreateProofFromAuthZoneOfAll renders
// CREATE_PROOF_FROM_AUTH_ZONE_OF_ALL Address("...") Proof("...");
type CreateProofFromAuthZoneOfAll struct {
	Resource Address
	Proof    Proof
}

func (c CreateProofFromAuthZoneOfAll) render(sb *strings.Builder) {
	sb.WriteString("CREATE_PROOF_FROM_AUTH_ZONE_OF_ALL\n    ")
	c.Resource.render(sb)
	sb.WriteString("\n    ")
	c.Proof.render(sb)
	sb.WriteString("\n;\n")
}

func (c CreateProofFromAuthZoneOfAll) validate() error {
	if err := c.Resource.validate(); err != nil {
		return err
	}
	return c.Proof.validate()
}

// Manifest is an ordered list of instructions
type Manifest struct {
	Instructions []Instruction
}

// Add appends instructions and returns the manifest for chaining
func (m *Manifest) Add(instructions ...Instruction) *Manifest {
	m.Instructions = append(m.Instructions, instructions...)
	return m
}

// Validate checks every literal of every instruction
func (m *Manifest) Validate() error {
	for i, instruction := range m.Instructions {
		if err := instruction.validate(); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}

// Render validates the manifest and returns its text
func (m *Manifest) Render() (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, instruction := range m.Instructions {
		instruction.render(&sb)
	}
	return sb.String(), nil
}
