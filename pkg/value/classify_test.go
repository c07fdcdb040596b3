package value

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want Kind
	}{
		{"zero value", Value{}, Null},
		{"null", NewNull(), Null},
		{"string", NewString("x"), Primitive},
		{"number", NewNumber(1), Primitive},
		{"bool", NewBool(false), Primitive},
		{"empty array", NewArray(), Array},
		{"array", NewArray(NewNumber(1)), Array},
		{"empty object", NewObject(), Object},
		{"object", NewObject(M("a", NewNull())), Object},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.v); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsImageRef(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  bool
	}{
		{"thumbnail key", "thumbnail", "https://picsum.photos/id/237/200/200", true},
		{"key case-insensitive", "ProfilePhoto", "whatever", true},
		{"key contains logo", "companyLogoUrl", "x", true},
		{"avatar key", "avatar", "", true},
		{"image key", "image", "https://picsum.photos/id/1053/200/200", true},
		{"png extension", "", "cat.png", true},
		{"jpeg extension upper", "", "CAT.JPEG", true},
		{"jpg extension", "file", "a/b/c.jpg", true},
		{"svg extension", "", "icon.svg", true},
		{"webp extension", "", "x.webp", true},
		{"bmp extension", "", "x.bmp", true},
		{"gif extension", "", "x.GiF", true},
		{"extension not at end", "", "cat.png?size=2", false},
		{"tiff not recognized", "", "scan.tiff", false},
		{"plain text", "name", "John Doe", false},
		{"empty key plain", "", "https://example.com/page", false},
		{"extension without dot", "", "png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsImageRef(tt.key, tt.value); got != tt.want {
				t.Errorf("IsImageRef(%q, %q) = %v, want %v", tt.key, tt.value, got, tt.want)
			}
		})
	}
}

func TestIsImageValue(t *testing.T) {
	if !IsImageValue("logo", NewString("bad-url")) {
		t.Error("IsImageValue(logo, string) = false, want true")
	}
	if IsImageValue("logo", NewNumber(3)) {
		t.Error("IsImageValue(logo, number) = true, want false")
	}
	if IsImageValue("logo", NewObject()) {
		t.Error("IsImageValue(logo, object) = true, want false")
	}
}
