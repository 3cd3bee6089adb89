package model

import (
	"fmt"
	"strings"
)

type Language string

const (
	LangPython     Language = "python"
	LangCpp        Language = "cpp"
	LangJava       Language = "java"
	LangJavaScript Language = "javascript"
)

// LanguageInfo is display metadata for an accepted language.
type LanguageInfo struct {
	ID          Language
	Name        string
	Extension   string
	StarterCode string
}

// Languages lists the accepted languages in display order.
var Languages = []LanguageInfo{
	{
		ID:        LangPython,
		Name:      "Python 3",
		Extension: "py",
		StarterCode: `# Write your solution here
def solve():
    # Read input
    n = int(input())
    arr = list(map(int, input().split()))

    # Your code here
    result = sum(arr)

    print(result)

solve()
`,
	},
	{
		ID:        LangCpp,
		Name:      "C++ 17",
		Extension: "cpp",
		StarterCode: `#include <iostream>
#include <vector>
using namespace std;

int main() {
    ios_base::sync_with_stdio(false);
    cin.tie(nullptr);

    int n;
    cin >> n;

    vector<int> arr(n);
    for (int i = 0; i < n; i++) {
        cin >> arr[i];
    }

    // Your code here
    long long sum = 0;
    for (int x : arr) sum += x;

    cout << sum << endl;
    return 0;
}
`,
	},
	{
		ID:        LangJava,
		Name:      "Java 17",
		Extension: "java",
		StarterCode: `import java.util.*;

public class Main {
    public static void main(String[] args) {
        Scanner sc = new Scanner(System.in);

        int n = sc.nextInt();
        int[] arr = new int[n];
        for (int i = 0; i < n; i++) {
            arr[i] = sc.nextInt();
        }

        // Your code here
        long sum = 0;
        for (int x : arr) sum += x;

        System.out.println(sum);
    }
}
`,
	},
	{
		ID:        LangJavaScript,
		Name:      "Node.js",
		Extension: "js",
		StarterCode: `const readline = require('readline');

const rl = readline.createInterface({
    input: process.stdin,
    output: process.stdout
});

const lines = [];

rl.on('line', (line) => {
    lines.push(line);
});

rl.on('close', () => {
    const n = parseInt(lines[0]);
    const arr = lines[1].split(' ').map(Number);

    // Your code here
    const sum = arr.reduce((a, b) => a + b, 0);

    console.log(sum);
});
`,
	},
}

// ParseLanguage accepts a language id or file extension ("js", "py").
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Languages {
		if s == string(l.ID) || s == l.Extension {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// Info returns display metadata; ok is false for unknown languages.
func (l Language) Info() (LanguageInfo, bool) {
	for _, info := range Languages {
		if info.ID == l {
			return info, true
		}
	}
	return LanguageInfo{}, false
}

func (l Language) Valid() bool {
	_, ok := l.Info()
	return ok
}
