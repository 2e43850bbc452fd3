// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package summaries

// stdExtensions maps the name of a bundled PHP extension to the summaries of its functions.
var stdExtensions = map[string]map[string]Summary{
	"standard": SummaryStandard,
	"pcre":     SummaryPcre,
	"json":     SummaryJSON,
	"mbstring": SummaryMbstring,
	"ctype":    SummaryCtype,
	"math":     SummaryMath,
	"array":    SummaryArray,
	"url":      SummaryURL,
}

var SummaryStandard = map[string]Summary{
	// trim(string $string, string $characters = " \n\r\t\v\x00"): string
	"trim":  FirstArgPropagation,
	"ltrim": FirstArgPropagation,
	"rtrim": FirstArgPropagation,
	"chop":  FirstArgPropagation,
	// strtolower(string $string): string
	"strtolower":   FirstArgPropagation,
	"strtoupper":   FirstArgPropagation,
	"ucfirst":      FirstArgPropagation,
	"lcfirst":      FirstArgPropagation,
	"ucwords":      FirstArgPropagation,
	"strrev":       FirstArgPropagation,
	"nl2br":        FirstArgPropagation,
	"stripslashes": FirstArgPropagation,
	"quotemeta":    FirstArgPropagation,
	// substr(string $string, int $offset, ?int $length = null): string
	"substr": FirstArgPropagation,
	// str_repeat(string $string, int $times): string
	"str_repeat": FirstArgPropagation,
	// str_pad(string $string, int $length, string $pad_string = " ", int $pad_type = STR_PAD_RIGHT): string
	"str_pad": {Rets: []int{0, 2}},
	// str_replace(array|string $search, array|string $replace, string|array $subject, int &$count = null)
	"str_replace":  {Rets: []int{1, 2}},
	"str_ireplace": {Rets: []int{1, 2}},
	// substr_replace(array|string $string, array|string $replace, ...)
	"substr_replace": {Rets: []int{0, 1}},
	// strstr(string $haystack, string $needle, bool $before_needle = false): string|false
	"strstr":  FirstArgPropagation,
	"stristr": FirstArgPropagation,
	"strrchr": FirstArgPropagation,
	// sprintf(string $format, mixed ...$values): string
	"sprintf":  AllArgsPropagation,
	"vsprintf": AllArgsPropagation,
	// implode(array|string $separator, ?array $array): string
	"implode": AllArgsPropagation,
	"join":    AllArgsPropagation,
	// explode(string $separator, string $string, int $limit = PHP_INT_MAX): array
	"explode": SecondArgPropagation,
	// str_split(string $string, int $length = 1): array
	"str_split": FirstArgPropagation,
	// wordwrap(string $string, int $width = 75, string $break = "\n", bool $cut_long_words = false): string
	"wordwrap": {Rets: []int{0, 2}},
	// dirname(string $path, int $levels = 1): string
	"dirname": FirstArgPropagation,
	// pathinfo(string $path, int $flags = PATHINFO_ALL): array|string
	"pathinfo": FirstArgPropagation,
	// serialize(mixed $value): string
	"serialize":   FirstArgPropagation,
	"unserialize": FirstArgPropagation,
	"var_export":  FirstArgPropagation,
	"print_r":     FirstArgPropagation,
	// base64_encode(string $string): string
	"base64_encode": FirstArgPropagation,
	"base64_decode": FirstArgPropagation,
	"bin2hex":       FirstArgPropagation,
	"hex2bin":       FirstArgPropagation,
	"strval":        FirstArgPropagation,
	"settype":       NoDataFlowPropagation,
	"gettype":       NoDataFlowPropagation,
	// strlen(string $string): int
	"strlen":          NoDataFlowPropagation,
	"strpos":          NoDataFlowPropagation,
	"stripos":         NoDataFlowPropagation,
	"strrpos":         NoDataFlowPropagation,
	"strcmp":          NoDataFlowPropagation,
	"strcasecmp":      NoDataFlowPropagation,
	"strncmp":         NoDataFlowPropagation,
	"substr_count":    NoDataFlowPropagation,
	"md5":             NoDataFlowPropagation,
	"sha1":            NoDataFlowPropagation,
	"crc32":           NoDataFlowPropagation,
	"hash":            NoDataFlowPropagation,
	"password_hash":   NoDataFlowPropagation,
	"is_numeric":      NoDataFlowPropagation,
	"is_string":       NoDataFlowPropagation,
	"is_array":        NoDataFlowPropagation,
	"is_int":          NoDataFlowPropagation,
	"is_null":         NoDataFlowPropagation,
	"file_exists":     NoDataFlowPropagation,
	"is_file":         NoDataFlowPropagation,
	"is_dir":          NoDataFlowPropagation,
	"function_exists": NoDataFlowPropagation,
	"defined":         NoDataFlowPropagation,
	"define":          NoDataFlowPropagation,
	"time":            NoDataFlowPropagation,
	"date":            NoDataFlowPropagation,
	"uniqid":          NoDataFlowPropagation,
	"rand":            NoDataFlowPropagation,
	"mt_rand":         NoDataFlowPropagation,
	"count":           NoDataFlowPropagation,
	"sizeof":          NoDataFlowPropagation,
	"header":          NoDataFlowPropagation,
	"setcookie":       NoDataFlowPropagation,
	"error_log":       NoDataFlowPropagation,
}

var SummaryPcre = map[string]Summary{
	// preg_replace(string|array $pattern, string|array $replacement, string|array $subject, ...)
	"preg_replace":          {Rets: []int{1, 2}},
	"preg_replace_callback": {Rets: []int{2}},
	// preg_split(string $pattern, string $subject, int $limit = -1, int $flags = 0): array|false
	"preg_split": SecondArgPropagation,
	// preg_quote(string $str, ?string $delimiter = null): string
	"preg_quote": FirstArgPropagation,
	// preg_match(string $pattern, string $subject, array &$matches = null, ...): int|false
	"preg_match":     NoDataFlowPropagation,
	"preg_match_all": NoDataFlowPropagation,
	"preg_grep":      SecondArgPropagation,
}

var SummaryJSON = map[string]Summary{
	// json_encode(mixed $value, int $flags = 0, int $depth = 512): string|false
	"json_encode": FirstArgPropagation,
	// json_decode(string $json, ?bool $associative = null, ...): mixed
	"json_decode":         FirstArgPropagation,
	"json_last_error":     NoDataFlowPropagation,
	"json_last_error_msg": NoDataFlowPropagation,
}

var SummaryMbstring = map[string]Summary{
	"mb_strtolower":        FirstArgPropagation,
	"mb_strtoupper":        FirstArgPropagation,
	"mb_substr":            FirstArgPropagation,
	"mb_convert_encoding":  FirstArgPropagation,
	"mb_convert_case":      FirstArgPropagation,
	"mb_strlen":            NoDataFlowPropagation,
	"mb_strpos":            NoDataFlowPropagation,
	"mb_check_encoding":    NoDataFlowPropagation,
	"mb_internal_encoding": NoDataFlowPropagation,
}

var SummaryCtype = map[string]Summary{
	"ctype_digit":  NoDataFlowPropagation,
	"ctype_alpha":  NoDataFlowPropagation,
	"ctype_alnum":  NoDataFlowPropagation,
	"ctype_space":  NoDataFlowPropagation,
	"ctype_upper":  NoDataFlowPropagation,
	"ctype_lower":  NoDataFlowPropagation,
	"ctype_xdigit": NoDataFlowPropagation,
}

var SummaryMath = map[string]Summary{
	"abs":           NoDataFlowPropagation,
	"ceil":          NoDataFlowPropagation,
	"floor":         NoDataFlowPropagation,
	"round":         NoDataFlowPropagation,
	"max":           NoDataFlowPropagation,
	"min":           NoDataFlowPropagation,
	"pow":           NoDataFlowPropagation,
	"sqrt":          NoDataFlowPropagation,
	"number_format": NoDataFlowPropagation,
}

var SummaryArray = map[string]Summary{
	// array_merge(array ...$arrays): array
	"array_merge":           AllArgsPropagation,
	"array_merge_recursive": AllArgsPropagation,
	"array_replace":         AllArgsPropagation,
	"compact":               AllArgsPropagation,
	"array_combine":         AllArgsPropagation,
	// array_values(array $array): array
	"array_values":  FirstArgPropagation,
	"array_keys":    FirstArgPropagation,
	"array_reverse": FirstArgPropagation,
	"array_slice":   FirstArgPropagation,
	"array_unique":  FirstArgPropagation,
	"array_filter":  FirstArgPropagation,
	"array_pop":     FirstArgPropagation,
	"array_shift":   FirstArgPropagation,
	"current":       FirstArgPropagation,
	"end":           FirstArgPropagation,
	"reset":         FirstArgPropagation,
	"next":          FirstArgPropagation,
	"key":           FirstArgPropagation,
	// array_map(?callable $callback, array $array, array ...$arrays): array
	"array_map":        {Rets: []int{1, 2, 3}},
	"array_push":       NoDataFlowPropagation,
	"in_array":         NoDataFlowPropagation,
	"array_key_exists": NoDataFlowPropagation,
	"array_search":     NoDataFlowPropagation,
	"sort":             NoDataFlowPropagation,
	"ksort":            NoDataFlowPropagation,
	"usort":            NoDataFlowPropagation,
}

var SummaryURL = map[string]Summary{
	// urlencode(string $string): string
	"urlencode":        FirstArgPropagation,
	"urldecode":        FirstArgPropagation,
	"rawurlencode":     FirstArgPropagation,
	"rawurldecode":     FirstArgPropagation,
	"http_build_query": FirstArgPropagation,
	"parse_url":        FirstArgPropagation,
}
