package isa

import "fmt"

// Encode produces the canonical 32-bit representation of an instruction:
//
//	[31..24] lit       (8 bits)
//	[23..22] src_port  (2 bits)
//	[21..20] dst_port  (2 bits)
//	[19..16] op        (4 bits)
//	[15..8]  src_tag   (8 bits)
//	[7..0]   dst_tag   (8 bits)
//
// Encode∘Decode must be the identity on every representable instruction, and
// semantically distinct instructions must never collide: the commitment
// layer and any off-chain assembler must produce bit-identical words.
func Encode(i Instruction) (uint32, error) {
	var lit uint32
	if i.Src.Tag == SrcLit {
		if i.Src.Lit > 0xFF {
			return 0, fmt.Errorf("isa: literal %d exceeds the 8-bit encodable range", i.Src.Lit)
		}
		lit = i.Src.Lit
	}

	var srcPort uint32
	if i.Src.Tag == SrcPort {
		srcPort = i.Src.Port.Code()
	}

	var dstPort uint32
	if i.Dst.Tag == DstPort {
		dstPort = i.Dst.Port.Code()
	}

	word := lit<<24 | srcPort<<22 | dstPort<<20 | i.Op.Code()<<16 | srcTagCode(i.Src.Tag)<<8 | dstTagCode(i.Dst.Tag)
	return word, nil
}

// Decode is total over all 32-bit inputs: unknown tag bits map deterministically
// to the last variant in each union, matching decodeOpcode/decodeSrcTag/decodeDstTag.
func Decode(word uint32) Instruction {
	lit := (word >> 24) & 0xFF
	srcPortCode := (word >> 22) & 0x3
	dstPortCode := (word >> 20) & 0x3
	opCode := (word >> 16) & 0xF
	srcTagBits := (word >> 8) & 0xFF
	dstTagBits := word & 0xFF

	op := decodeOpcode(opCode)
	srcTag := decodeSrcTag(srcTagBits)
	dstTag := decodeDstTag(dstTagBits)

	var src Src
	switch srcTag {
	case SrcLit:
		src = Src{Tag: SrcLit, Lit: lit}
	case SrcPort:
		src = Src{Tag: SrcPort, Port: decodePort(srcPortCode)}
	default:
		src = Src{Tag: srcTag}
	}

	var dst Dst
	switch dstTag {
	case DstPort:
		dst = Dst{Tag: DstPort, Port: decodePort(dstPortCode)}
	default:
		dst = Dst{Tag: dstTag}
	}

	return Instruction{Op: op, Src: src, Dst: dst}
}

func srcTagCode(t SrcTag) uint32 {
	for code, candidate := range srcTagOrder {
		if candidate == t {
			return uint32(code)
		}
	}
	return uint32(SrcLast)
}

func dstTagCode(t DstTag) uint32 {
	for code, candidate := range dstTagOrder {
		if candidate == t {
			return uint32(code)
		}
	}
	return uint32(DstLast)
}
