package registry

import "testing"

func TestMRTTypeKnown(t *testing.T) {
	cn := MRTType(MRTTableDumpV2)
	if cn.Name != "TABLE_DUMP_V2" {
		t.Errorf("got %s", cn.Name)
	}
}

func TestMRTTypeUnknownFallsBack(t *testing.T) {
	cn := MRTType(9999)
	if cn.Name != "Unknown" {
		t.Errorf("got %s, want Unknown", cn.Name)
	}
	if cn.Code != 9999 {
		t.Errorf("code not preserved: %d", cn.Code)
	}
}

func TestTableDumpV2SubtypeTotality(t *testing.T) {
	for code := uint16(1); code <= 12; code++ {
		cn := TableDumpV2Subtype(code)
		if cn.Name == "Unknown" {
			t.Errorf("subtype %d should resolve to a known name", code)
		}
	}
}

func TestBGP4MPSubtypeTotality(t *testing.T) {
	for code := uint16(0); code <= 11; code++ {
		cn := BGP4MPSubtype(code)
		if cn.Name == "Unknown" {
			t.Errorf("subtype %d should resolve to a known name", code)
		}
	}
}

func TestAttrTypeUnknownIsUnknown(t *testing.T) {
	cn := AttrType(250)
	if cn.Name != "Unknown" {
		t.Errorf("got %s, want Unknown for unassigned attribute type", cn.Name)
	}
}

func TestBGPErrorSubcodeDispatch(t *testing.T) {
	cn := BGPErrorSubcode(2, 7)
	if cn.Name != "Unsupported Capability" {
		t.Errorf("got %s", cn.Name)
	}
}

func TestCodeNameString(t *testing.T) {
	cn := CodeName{Code: 1, Name: "OPEN"}
	if cn.String() != "OPEN(1)" {
		t.Errorf("got %s", cn.String())
	}
}
