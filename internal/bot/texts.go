package bot

const (
	callbackExpand  = "expand_answer"
	callbackConsent = "accept_consent"

	callbackRateHelpful     = "rate_helpful"
	callbackRateUnhelpful   = "rate_unhelpful"
	callbackRateAIHelpful   = "rate_ai_helpful"
	callbackRateAIUnhelpful = "rate_ai_unhelpful"

	maxMessageLength = 4096
)

const welcomeText = `👋 Здравствуйте, %s!

Я консультант по охране труда. Отвечаю на вопросы по инструктажам, обучению, СИЗ, медосмотрам, СОУТ и расследованию несчастных случаев.

Сначала ищу ответ в проверенной базе знаний, а если его там нет, обращаюсь к нейросети.

/help покажет список команд.`

const consentText = `🔒 <b>Согласие на обработку персональных данных</b>

Для работы бота мы храним ваш Telegram ID, имя пользователя и историю вопросов (ФЗ-152 «О персональных данных»).

• Телефоны, e-mail, паспортные данные и СНИЛС в вопросах автоматически маскируются
• Данные не передаются третьим лицам, кроме обезличенного текста вопроса для AI-сервиса
• Вы можете отозвать согласие, обратившись к администратору

Нажмите кнопку ниже, чтобы продолжить.`

const helpText = `📖 <b>Команды</b>

/ask <i>вопрос</i> - задать вопрос (можно просто написать текст)
/ask_assistant <i>вопрос</i> - вопрос нейроассистенту (или начните сообщение с «?»)
/stats - ваши лимиты запросов
/consent - согласие на обработку данных
/help - эта справка`

const adminHelpText = `

🛠 <b>Администрирование</b>
/rate_limits - политики ограничений
/user_rate_limit <i>ID</i> - лимиты пользователя
/clear_rate_limit <i>ID</i> - сбросить лимиты пользователя
/reload_faq - перезагрузить базу знаний
/kb_stats - статистика базы знаний
/block <i>ID</i>, /unblock <i>ID</i> - блокировка пользователя`

const (
	textConsentAccepted = "✅ Спасибо! Согласие принято, можно задавать вопросы."
	textBlocked         = "⛔ Ваш доступ к боту заблокирован. Обратитесь к администратору."
	textTooShort        = "✏️ Вопрос слишком короткий. Опишите ситуацию подробнее."
	textNoPending       = "Нет ответа из базы знаний, который можно расширить. Задайте вопрос заново."
	textEmptyQuestion   = "Напишите вопрос после команды, например: /ask Как часто проводить инструктаж?"
	textInternalError   = "😔 Не удалось получить ответ. Попробуйте позже."
	textAdminOnly       = "Команда доступна только администраторам."
	textUnknownCommand  = "Неизвестная команда. /help покажет список команд."
	textBadUserID       = "Укажите числовой ID пользователя."
	textAIHeader        = "🤖 <b>Ответ нейросети</b>\n\n"
	textAIFooter        = "\n\n<i>Ответ сгенерирован AI. Сверьте его с действующими нормативными актами.</i>"
	buttonExpand        = "📖 Расширить ответ"
	buttonConsent       = "✅ Принимаю"
	buttonHelpful       = "👍 Полезно"
	buttonUnhelpful     = "👎 Не то"

	noticeRated        = "✅ Спасибо за оценку!"
	noticeRatedAI      = "👍 Спасибо за обратную связь!"
	noticeRejected     = "📝 Спасибо за обратную связь! Попробую найти более подходящий ответ."
	noticeRejectedAI   = "📝 Спасибо за обратную связь!"
	noticeAlreadyRated = "Оценка уже учтена."
	textAskingAI       = "🤖 Обращаюсь к AI для более точного ответа..."
)
