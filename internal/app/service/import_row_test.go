package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRow_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    ImportRow
		wantErr bool
	}{
		{
			name:    "English keys",
			payload: `{"inquiry_date":"2024-01-15","channel_name":"전화","client_name":"가나상사","content":"문의","tag_names":"a,b"}`,
			want:    ImportRow{InquiryDate: "2024-01-15", ChannelName: "전화", ClientName: "가나상사", Content: "문의", TagNames: "a,b"},
		},
		{
			name:    "Korean titles with numeric serial",
			payload: `{"문의일자":45000,"상담매체":"메일","업체명":"Acme","상담내용":"견적","상태":"완료"}`,
			want:    ImportRow{InquiryDate: "45000", ChannelName: "메일", ClientName: "Acme", Content: "견적", StatusName: "완료"},
		},
		{
			name:    "Unknown keys and nulls are ignored",
			payload: `{"memo":"x","contact":null,"email":"a@b.c"}`,
			want:    ImportRow{Email: "a@b.c"},
		},
		{
			name:    "Object value",
			payload: `{"content":{"text":"x"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var row ImportRow
			err := json.Unmarshal([]byte(tt.payload), &row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, row)
		})
	}
}

func TestImportRow_UnmarshalJSON_EnglishKeyWins(t *testing.T) {
	payload := []byte(`{"상담내용":"한글","content":"english","업체명":"가나상사","Client_Name":"Acme","상태":"보류"}`)

	// map 순회 순서와 무관하게 항상 같은 결과
	for i := 0; i < 20; i++ {
		var row ImportRow
		require.NoError(t, json.Unmarshal(payload, &row))
		assert.Equal(t, "english", row.Content)
		assert.Equal(t, "Acme", row.ClientName)
		assert.Equal(t, "보류", row.StatusName)
	}
}

func TestImportColumnKey(t *testing.T) {
	key, ok := ImportColumnKey("\ufeff문의일자")
	assert.True(t, ok)
	assert.Equal(t, "inquiry_date", key)

	key, ok = ImportColumnKey(" Channel_Name ")
	assert.True(t, ok)
	assert.Equal(t, "channel_name", key)

	_, ok = ImportColumnKey("비고")
	assert.False(t, ok)
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"에어셀", "Foo"}, splitNames(" 에어셀, Foo,,foo ,"))
	assert.Nil(t, splitNames("  "))
}
