package jsonly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tagly/format/text"
)

type account struct {
	UserName string
	NickName string `jsonly:"name=alias"`
}

func TestConfig_NameTransformers(t *testing.T) {
	t.Cleanup(ResetConfig)
	SetNameEncoder(CaseFormatName(text.CaseFormatLowerUnderscore))
	SetNameDecoder(CaseFormatName(text.CaseFormatUpperCamel))

	data, err := Marshal(account{UserName: "alice", NickName: "a"})
	require.NoError(t, err)
	//explicit names bypass the transformer
	assert.EqualValues(t, `{"user_name":"alice","alias":"a"}`, string(data))

	var out account
	require.NoError(t, Unmarshal(data, &out))
	assert.EqualValues(t, account{UserName: "alice", NickName: "a"}, out)
}

func TestConfig_PerCallCaseFormat(t *testing.T) {
	data, err := Marshal(account{UserName: "alice"}, WithCaseFormat(text.CaseFormatLowerUnderscore))
	require.NoError(t, err)
	assert.EqualValues(t, `{"user_name":"alice","alias":""}`, string(data))

	var out account
	require.NoError(t, Unmarshal([]byte(`{"user_name":"bob"}`), &out, WithCaseFormat(text.CaseFormatLowerUnderscore)))
	assert.EqualValues(t, "bob", out.UserName)
}

func TestConfig_Reset(t *testing.T) {
	SetNameEncoder(func(string) string { return "x" })
	SetTypeInfo(true)
	SetDiscriminator("$kind")
	ResetConfig()
	cfg := snapshot()
	assert.False(t, cfg.typeInfo)
	assert.EqualValues(t, DefaultDiscriminator, cfg.discriminator)
	data, err := Marshal(account{UserName: "alice"})
	require.NoError(t, err)
	assert.EqualValues(t, `{"UserName":"alice","alias":""}`, string(data))
}

func TestCaseFormatName(t *testing.T) {
	var useCases = []struct {
		description string
		format      text.CaseFormat
		input       string
		expect      string
	}{
		{description: "camel to underscore", format: text.CaseFormatLowerUnderscore, input: "UserName", expect: "user_name"},
		{description: "underscore to camel", format: text.CaseFormatUpperCamel, input: "user_name", expect: "UserName"},
		{description: "empty name", format: text.CaseFormatUpperCamel, input: "", expect: ""},
		{description: "undefined format", format: text.CaseFormatUndefined, input: "UserName", expect: "UserName"},
	}
	for _, useCase := range useCases {
		actual := CaseFormatName(useCase.format)(useCase.input)
		assert.EqualValues(t, useCase.expect, actual, useCase.description)
	}
}
