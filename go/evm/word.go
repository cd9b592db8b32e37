// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Word is the 256-bit unsigned machine word of the interpreter. All
// arithmetic wraps modulo 2^256. Signed operations interpret the word as a
// two's complement number. Words are values, comparable, and may be used as
// map keys.
type Word struct {
	internal uint256.Int
}

// NewWord creates a new Word instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewWord(args ...uint64) (result Word) {
	if len(args) > 4 {
		panic("too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args); i++ {
		result.internal[3-i-offset] = args[i]
	}
	return
}

// WordFromBytes interprets the given bytes as a big-endian number. Inputs
// longer than 32 bytes are truncated to their least significant 32 bytes.
func WordFromBytes(data []byte) (result Word) {
	if len(data) > 32 {
		data = data[len(data)-32:]
	}
	result.internal.SetBytes(data)
	return
}

// WordFromUint256 converts a uint256.Int into a Word. A nil input yields zero.
func WordFromUint256(value *uint256.Int) (result Word) {
	if value != nil {
		result.internal = *value
	}
	return
}

// MaxWord returns the largest representable word, 2^256-1.
func MaxWord() Word {
	return NewWord(^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0))
}

// ToUint256 returns a pointer to a copy of the underlying uint256.Int.
func (w Word) ToUint256() *uint256.Int {
	res := w.internal
	return &res
}

func (w Word) ToBig() *big.Int {
	return w.internal.ToBig()
}

func (w Word) IsZero() bool {
	return w.internal.IsZero()
}

func (w Word) IsUint64() bool {
	return w.internal.IsUint64()
}

// Uint64 returns the lower 64 bits of the word.
func (w Word) Uint64() uint64 {
	return w.internal.Uint64()
}

// Uint64WithOverflow returns the lower 64 bits and whether any higher bit is set.
func (w Word) Uint64WithOverflow() (uint64, bool) {
	return w.internal.Uint64WithOverflow()
}

// ByteLen returns the number of bytes required to represent the word.
func (w Word) ByteLen() int {
	return w.internal.ByteLen()
}

// Sign returns -1, 0, or 1 depending on the two's complement sign.
func (w Word) Sign() int {
	return w.internal.Sign()
}

func (w Word) Bytes32() [32]byte {
	return w.internal.Bytes32()
}

func (w Word) Bytes20() [20]byte {
	return w.internal.Bytes20()
}

// ToAddress interprets the lower 160 bits of the word as an address.
func (w Word) ToAddress() Address {
	return Address(w.internal.Bytes20())
}

// ToHash converts the word to its 32-byte big-endian representation.
func (w Word) ToHash() Hash {
	return Hash(w.internal.Bytes32())
}

// WordFromAddress zero-extends the given address to a word.
func WordFromAddress(a Address) (result Word) {
	result.internal.SetBytes20(a[:])
	return
}

// WordFromHash interprets the given hash as a big-endian number.
func WordFromHash(h Hash) (result Word) {
	result.internal.SetBytes32(h[:])
	return
}

func (w Word) Add(o Word) (z Word) {
	z.internal.Add(&w.internal, &o.internal)
	return
}

func (w Word) Sub(o Word) (z Word) {
	z.internal.Sub(&w.internal, &o.internal)
	return
}

func (w Word) Mul(o Word) (z Word) {
	z.internal.Mul(&w.internal, &o.internal)
	return
}

// Div is the unsigned integer division. Division by zero yields zero.
func (w Word) Div(o Word) (z Word) {
	z.internal.Div(&w.internal, &o.internal)
	return
}

// SDiv is the signed integer division truncating towards zero. Division by
// zero yields zero, and MIN / -1 yields MIN.
func (w Word) SDiv(o Word) (z Word) {
	z.internal.SDiv(&w.internal, &o.internal)
	return
}

// Mod is the unsigned remainder. Modulo by zero yields zero.
func (w Word) Mod(o Word) (z Word) {
	z.internal.Mod(&w.internal, &o.internal)
	return
}

// SMod is the signed remainder taking the sign of the dividend. Modulo by
// zero yields zero.
func (w Word) SMod(o Word) (z Word) {
	z.internal.SMod(&w.internal, &o.internal)
	return
}

// AddMod computes (w + o) % m without intermediate overflow. A zero modulus
// yields zero.
func (w Word) AddMod(o, m Word) (z Word) {
	z.internal.AddMod(&w.internal, &o.internal, &m.internal)
	return
}

// MulMod computes (w * o) % m without intermediate overflow. A zero modulus
// yields zero.
func (w Word) MulMod(o, m Word) (z Word) {
	z.internal.MulMod(&w.internal, &o.internal, &m.internal)
	return
}

// Exp computes w^e modulo 2^256.
func (w Word) Exp(e Word) (z Word) {
	z.internal.Exp(&w.internal, &e.internal)
	return
}

// SignExtend extends the sign of the two's complement number stored in the
// lowest back+1 bytes of w. For back >= 31 the word is returned unchanged.
func (w Word) SignExtend(back Word) (z Word) {
	z.internal.ExtendSign(&w.internal, &back.internal)
	return
}

func (w Word) And(o Word) (z Word) {
	z.internal.And(&w.internal, &o.internal)
	return
}

func (w Word) Or(o Word) (z Word) {
	z.internal.Or(&w.internal, &o.internal)
	return
}

func (w Word) Xor(o Word) (z Word) {
	z.internal.Xor(&w.internal, &o.internal)
	return
}

func (w Word) Not() (z Word) {
	z.internal.Not(&w.internal)
	return
}

// Shl shifts w left by shift bits. Shifts of 256 or more yield zero.
func (w Word) Shl(shift Word) (z Word) {
	if n, overflow := shift.internal.Uint64WithOverflow(); !overflow && n < 256 {
		z.internal.Lsh(&w.internal, uint(n))
	}
	return
}

// Shr logically shifts w right by shift bits. Shifts of 256 or more yield zero.
func (w Word) Shr(shift Word) (z Word) {
	if n, overflow := shift.internal.Uint64WithOverflow(); !overflow && n < 256 {
		z.internal.Rsh(&w.internal, uint(n))
	}
	return
}

// Sar arithmetically shifts w right by shift bits. Shifts of 256 or more yield
// zero for non-negative and all ones for negative values.
func (w Word) Sar(shift Word) (z Word) {
	if n, overflow := shift.internal.Uint64WithOverflow(); !overflow && n < 256 {
		z.internal.SRsh(&w.internal, uint(n))
		return
	}
	if w.internal.Sign() < 0 {
		z.internal.SetAllOne()
	}
	return
}

// Byte returns the index-th byte of w counting from the most significant
// byte. Indices of 32 or more yield zero.
func (w Word) Byte(index Word) (z Word) {
	z = w
	z.internal.Byte(&index.internal)
	return
}

func (w Word) Lt(o Word) bool {
	return w.internal.Lt(&o.internal)
}

func (w Word) Gt(o Word) bool {
	return w.internal.Gt(&o.internal)
}

func (w Word) Slt(o Word) bool {
	return w.internal.Slt(&o.internal)
}

func (w Word) Sgt(o Word) bool {
	return w.internal.Sgt(&o.internal)
}

func (w Word) Eq(o Word) bool {
	return w.internal.Eq(&o.internal)
}

// Cmp compares w and o as unsigned numbers and returns -1, 0, or +1.
func (w Word) Cmp(o Word) int {
	return w.internal.Cmp(&o.internal)
}

// WordFromBool returns one for true and zero for false.
func WordFromBool(b bool) Word {
	if b {
		return NewWord(1)
	}
	return Word{}
}

func (w Word) String() string {
	return w.internal.Hex()
}

// Format supports %d and %x alongside the default hex rendering.
func (w Word) Format(f fmt.State, verb rune) {
	switch verb {
	case 'd':
		fmt.Fprint(f, w.internal.Dec())
	case 'x':
		data := w.internal.Bytes()
		if len(data) == 0 {
			data = []byte{0}
		}
		fmt.Fprintf(f, "%x", data)
	default:
		fmt.Fprint(f, w.String())
	}
}

func (w Word) MarshalText() ([]byte, error) {
	return w.internal.MarshalText()
}

func (w *Word) UnmarshalText(data []byte) error {
	return w.internal.UnmarshalText(data)
}

// SizeInWords returns the number of 32-byte words needed to hold size bytes.
func SizeInWords(size uint64) uint64 {
	words := size / 32
	if size%32 != 0 {
		words++
	}
	return words
}
